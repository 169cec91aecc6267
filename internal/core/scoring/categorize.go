package scoring

import (
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// Categorize merges per-source snapshots into the verified/unverified
// partition of the claims. A claim is verified when any source lists it.
// Every claimed skill and project ends up in exactly one bucket, in claim
// order. Callers pass deduplicated claims (see domain.Claims.Deduplicated);
// any case-insensitive duplicate left over is folded into its first entry.
func Categorize(claims domain.Claims, snapshots map[domain.SourceKind]domain.EvidenceSnapshot) domain.VerificationResult {
	verifiedSkills := map[string]struct{}{}
	verifiedProjects := map[string]struct{}{}
	for _, s := range snapshots {
		for _, v := range s.VerifiedSkills {
			verifiedSkills[strings.ToLower(v)] = struct{}{}
		}
		for _, v := range s.VerifiedProjects {
			verifiedProjects[strings.ToLower(v)] = struct{}{}
		}
	}

	out := domain.VerificationResult{
		Sources:            snapshots,
		VerifiedSkills:     []string{},
		UnverifiedSkills:   []string{},
		VerifiedProjects:   []string{},
		UnverifiedProjects: []string{},
	}
	if out.Sources == nil {
		out.Sources = map[domain.SourceKind]domain.EvidenceSnapshot{}
	}
	out.VerifiedSkills, out.UnverifiedSkills = partition(claims.Skills, verifiedSkills)
	out.VerifiedProjects, out.UnverifiedProjects = partition(claims.ProjectNames(), verifiedProjects)
	return out
}

func partition(claimed []string, verified map[string]struct{}) ([]string, []string) {
	yes := []string{}
	no := []string{}
	seen := make(map[string]struct{}, len(claimed))
	for _, c := range claimed {
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := verified[key]; ok {
			yes = append(yes, c)
		} else {
			no = append(no, c)
		}
	}
	return yes, no
}
