// Package twitter matches claims against a user's posts. No API access is
// configured, so every username resolves to the demo timeline.
package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/matching"
)

type Source struct {
	logger *slog.Logger
	posts  func(username string) []domain.Post
}

func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{logger: logger, posts: MockPosts}
}

func (s *Source) Name() domain.SourceKind {
	return domain.SourceSocial
}

func (s *Source) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawEvidence{}, err
	}
	posts := s.posts(username)
	s.logger.DebugContext(ctx, "twitter_posts_loaded", "username", username, "posts", len(posts))
	return domain.RawEvidence{
		Username: username,
		Posts:    posts,
		Mocked:   true,
	}, nil
}

func (s *Source) Match(skills, projects []string, raw domain.RawEvidence) domain.MatchResult {
	result := domain.NewMatchResult()
	for _, skill := range skills {
		if proof := mentions(skill, raw.Posts); proof != nil {
			result.AddSkill(skill, proof...)
		}
	}
	for _, project := range projects {
		if proof := mentions(project, raw.Posts); proof != nil {
			result.AddProject(project, proof...)
		}
	}
	return result
}

// mentions returns the proof lines for term, or nil when no post names it.
func mentions(term string, posts []domain.Post) []string {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	var hits []domain.Post
	for _, p := range posts {
		if matching.ContainsTerm(p.Text, needle) {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	return []string{
		fmt.Sprintf("Mentioned in %d tweets", len(hits)),
		fmt.Sprintf("Example: '%s'", hits[0].Text),
	}
}

func MockPosts(string) []domain.Post {
	return []domain.Post{
		{ID: "1", CreatedAt: "2023-01-15T12:00:00Z", Text: "Just finished implementing a new feature using React and Tailwind CSS. Loving the developer experience! #webdev #React #TailwindCSS"},
		{ID: "2", CreatedAt: "2023-02-20T15:30:00Z", Text: "Working on a machine learning project with TensorFlow. Neural networks are fascinating! #MachineLearning #TensorFlow #AI"},
		{ID: "3", CreatedAt: "2023-03-10T09:45:00Z", Text: "Built a RESTful API with Node.js and Express for my e-commerce project. #NodeJS #Express #API"},
		{ID: "4", CreatedAt: "2023-04-05T14:20:00Z", Text: "Data visualization is so powerful! Just created an interactive dashboard with D3.js. #DataViz #D3js #JavaScript"},
		{ID: "5", CreatedAt: "2023-05-12T11:10:00Z", Text: "Exploring blockchain technology for my voting system project. Ethereum and Solidity are game-changers! #Blockchain #Ethereum #Solidity"},
	}
}
