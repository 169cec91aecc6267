package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

func newExtractCommand(opts *runtimeOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the claims found in a resume as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, ext, err := readDocument(args[0])
			if err != nil {
				return err
			}
			claims, err := opts.pipeline(cmd).ExtractClaims(cmd.Context(), content, ext)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), claims)
		},
	}
}

type scoreOutput struct {
	Claims       domain.Claims             `json:"claims"`
	Usernames    domain.Usernames          `json:"usernames"`
	Verification domain.VerificationResult `json:"verification"`
	Score        domain.ScoreBreakdown     `json:"score"`
	Band         domain.ScoreBand          `json:"band"`
}

func newScoreCommand(opts *runtimeOptions) *cobra.Command {
	var (
		usernames domain.Usernames
		format    string
	)
	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Verify a resume against public profiles and print its reality score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q: use json or text", format)
			}
			content, ext, err := readDocument(args[0])
			if err != nil {
				return err
			}
			pipeline := opts.pipeline(cmd)
			claims, err := pipeline.ExtractClaims(cmd.Context(), content, ext)
			if err != nil {
				return err
			}
			resolved := usernames.Resolve(claims)
			result := pipeline.Verify(cmd.Context(), claims, resolved)
			score := pipeline.Score(result)

			out := scoreOutput{
				Claims:       claims,
				Usernames:    resolved,
				Verification: result,
				Score:        score,
				Band:         score.Band(),
			}
			if format == "text" {
				return writeText(cmd.OutOrStdout(), out)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&usernames.CodeHost, "github", "", "GitHub username (default: from resume)")
	cmd.Flags().StringVar(&usernames.Social, "twitter", "", "Twitter handle (default: from resume)")
	cmd.Flags().StringVar(&usernames.Professional, "linkedin", "", "LinkedIn profile id (default: from resume)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or text")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(w io.Writer, out scoreOutput) error {
	var b strings.Builder
	name := out.Claims.Name
	if name == "" {
		name = "(name not found)"
	}
	fmt.Fprintf(&b, "Candidate:    %s\n", name)
	fmt.Fprintf(&b, "Reality score: %.1f/100 (%s)\n\n", out.Score.Final, out.Band)
	fmt.Fprintf(&b, "  GitHub     %5.1f\n", out.Score.CodeHost)
	fmt.Fprintf(&b, "  Twitter    %5.1f\n", out.Score.Social)
	fmt.Fprintf(&b, "  LinkedIn   %5.1f\n", out.Score.Professional)
	fmt.Fprintf(&b, "  Skills     %5.1f%%\n", out.Score.SkillsRatio)
	fmt.Fprintf(&b, "  Projects   %5.1f%%\n\n", out.Score.ProjectsRatio)

	writeList(&b, "Verified skills", out.Verification.VerifiedSkills)
	writeList(&b, "Unverified skills", out.Verification.UnverifiedSkills)
	writeList(&b, "Verified projects", out.Verification.VerifiedProjects)
	writeList(&b, "Unverified projects", out.Verification.UnverifiedProjects)

	kinds := make([]string, 0, len(out.Verification.Sources))
	for kind, snap := range out.Verification.Sources {
		if snap.Error != "" {
			kinds = append(kinds, fmt.Sprintf("%s: %s", kind, snap.Error))
		}
	}
	sort.Strings(kinds)
	writeList(&b, "Source errors", kinds)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
