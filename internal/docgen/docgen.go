package docgen

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-ma-automation/internal/models"
)

// Generator renders a tailored resume and cover letter for one posting into
// the output directory and returns the file paths recorded on the
// application.
type Generator struct {
	outputDir string
	resume    *template.Template
	cover     *template.Template
}

const resumeTemplate = `<!DOCTYPE html>
<html>
<head><title>Resume - {{.Job.Title}}</title></head>
<body>
<h1>Tailored Resume</h1>
<h2>{{.Job.Title}} at {{.Job.Company}}</h2>
<p>M&A relevance score: {{printf "%.0f" .Job.MAScore}}</p>
<p>Emphasis: financial modeling, due diligence, valuation, deal execution.</p>
<p>Target location: {{.Job.Location}}</p>
</body>
</html>
`

const coverLetterTemplate = `<!DOCTYPE html>
<html>
<head><title>Cover Letter - {{.Job.Title}}</title></head>
<body>
<p>Dear {{.Job.Company}} Hiring Team,</p>
<p>I am writing to express my strong interest in the {{.Job.Title}} position.
My background in mergers and acquisitions, including financial modeling,
due diligence, and transaction execution, aligns directly with the
responsibilities described in your posting.</p>
<p>I would welcome the opportunity to discuss how I can contribute to your
M&amp;A team.</p>
<p>Sincerely,<br>{{.Candidate}}</p>
</body>
</html>
`

func New(outputDir string) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Generator{
		outputDir: outputDir,
		resume:    template.Must(template.New("resume").Parse(resumeTemplate)),
		cover:     template.Must(template.New("cover").Parse(coverLetterTemplate)),
	}, nil
}

// Render writes both documents for the job and returns their paths.
func (g *Generator) Render(job models.ScoredJob) (resumePath, coverPath string, err error) {
	data := struct {
		Job       models.ScoredJob
		Candidate string
	}{Job: job, Candidate: "M&A Candidate"}

	base := sanitizeFilename(models.JobID(job.Company, job.Title))
	date := time.Now().Format("2006-01-02")

	resumePath = filepath.Join(g.outputDir, fmt.Sprintf("resume_%s_%s.html", base, date))
	if err := g.renderTo(g.resume, resumePath, data); err != nil {
		return "", "", err
	}

	coverPath = filepath.Join(g.outputDir, fmt.Sprintf("cover_%s_%s.html", base, date))
	if err := g.renderTo(g.cover, coverPath, data); err != nil {
		return "", "", err
	}

	return resumePath, coverPath, nil
}

func (g *Generator) renderTo(tmpl *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "&", "and")
	return replacer.Replace(name)
}
