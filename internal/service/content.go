package service

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/templui/stepboard/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const challengeFile = "challenge.md"

// Challenge is the header shown above the submission form
type Challenge struct {
	Title string
	Logo  string
	Intro template.HTML
}

var defaultChallenge = Challenge{
	Title: "Step Challenge",
	Intro: "<p>Submit your steps every day and climb the leaderboard.</p>",
}

type ContentService struct {
	contentDir string
	parser     *markdown.Parser

	mu      sync.Mutex
	cached  *Challenge
	modTime time.Time
}

func NewContentService(contentDir string) *ContentService {
	return &ContentService{
		contentDir: contentDir,
		parser:     markdown.NewParser(),
	}
}

// Challenge returns the parsed challenge page, reloading it when the file changes.
// A missing file falls back to built-in defaults.
func (s *ContentService) Challenge() (*Challenge, error) {
	path := filepath.Join(s.contentDir, challengeFile)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		c := defaultChallenge
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat challenge file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && info.ModTime().Equal(s.modTime) {
		return s.cached, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	page, err := s.parser.Render(content)
	if err != nil {
		return nil, err
	}

	challenge := &Challenge{
		Title: page.Title,
		Logo:  page.Logo,
		Intro: template.HTML(page.HTML),
	}
	if challenge.Title == "" {
		challenge.Title = cases.Title(language.English).String(strings.ReplaceAll(strings.TrimSuffix(challengeFile, ".md"), "-", " "))
	}
	if strings.TrimSpace(string(page.HTML)) == "" {
		challenge.Intro = defaultChallenge.Intro
	}

	s.cached = challenge
	s.modTime = info.ModTime()
	return challenge, nil
}
