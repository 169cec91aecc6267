// Package xlsx renders a scored resume as a spreadsheet for recruiters.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

const (
	sheetSummary  = "Summary"
	sheetSkills   = "Skills"
	sheetProjects = "Projects"
	sheetSources  = "Sources"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *Renderer) Render(ctx context.Context, resume *domain.Resume, w io.Writer) error {
	if resume == nil || resume.Claims == nil || resume.Verification == nil || resume.Score == nil {
		return domain.WrapError(domain.ErrVerificationNotReady, "render report", fmt.Errorf("resume has no score"))
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeRows(f, sheetSummary, header, summaryRows(resume)); err != nil {
		return err
	}

	v := resume.Verification
	sheets := []struct {
		name string
		rows [][]any
	}{
		{sheetSkills, claimRows("Skill", v.VerifiedSkills, v.UnverifiedSkills, v.Sources, skillsOf)},
		{sheetProjects, claimRows("Project", v.VerifiedProjects, v.UnverifiedProjects, v.Sources, projectsOf)},
		{sheetSources, sourceRows(v.Sources)},
	}
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeRows(f, sheet.name, header, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeRows puts rows from A1 down and styles the first one as a header.
func writeRows(f *excelize.File, sheet string, header int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func summaryRows(resume *domain.Resume) [][]any {
	c := resume.Claims
	s := resume.Score
	return [][]any{
		{"Field", "Value"},
		{"Resume ID", resume.ID},
		{"File", resume.Filename},
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Final score", round(s.Final)},
		{"Assessment", string(s.Band())},
		{"GitHub score", round(s.CodeHost)},
		{"Twitter score", round(s.Social)},
		{"LinkedIn score", round(s.Professional)},
		{"Skills verified %", round(s.SkillsRatio)},
		{"Projects verified %", round(s.ProjectsRatio)},
	}
}

func skillsOf(s domain.EvidenceSnapshot) []string   { return s.VerifiedSkills }
func projectsOf(s domain.EvidenceSnapshot) []string { return s.VerifiedProjects }

func claimRows(
	label string,
	verified, unverified []string,
	sources map[domain.SourceKind]domain.EvidenceSnapshot,
	pick func(domain.EvidenceSnapshot) []string,
) [][]any {
	rows := [][]any{{label, "Status", "Sources", "Proof"}}
	for _, name := range verified {
		var found, proof []string
		for _, kind := range domain.SourceKinds {
			snap, ok := sources[kind]
			if !ok || !containsFold(pick(snap), name) {
				continue
			}
			found = append(found, string(kind))
			proof = append(proof, proofFor(snap.Proof, name)...)
		}
		rows = append(rows, []any{name, "verified", strings.Join(found, ", "), strings.Join(proof, "; ")})
	}
	for _, name := range unverified {
		rows = append(rows, []any{name, "unverified", "", ""})
	}
	return rows
}

func sourceRows(sources map[domain.SourceKind]domain.EvidenceSnapshot) [][]any {
	rows := [][]any{{"Source", "Username", "Verified claims", "Mocked", "User not found", "Error"}}
	for _, kind := range domain.SourceKinds {
		snap, ok := sources[kind]
		if !ok {
			rows = append(rows, []any{string(kind), "", 0, false, false, "skipped"})
			continue
		}
		rows = append(rows, []any{
			string(kind), snap.Username, snap.VerifiedCount(),
			snap.Evidence.Mocked, snap.Evidence.UserNotFound, snap.Error,
		})
	}
	return rows
}

func proofFor(proof map[string][]string, name string) []string {
	if p, ok := proof[name]; ok {
		return p
	}
	keys := make([]string, 0, len(proof))
	for k := range proof {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return proof[k]
		}
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func round(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
