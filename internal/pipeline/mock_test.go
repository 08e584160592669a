package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/outreach-cli/internal/mail"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/sheet"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Letter(ctx context.Context, lead *model.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, text, outputPath string) error {
	args := m.Called(ctx, text, outputPath)
	return args.Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Append(ctx context.Context, e sheet.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) Confirm(ctx context.Context, lead *model.Lead) (bool, error) {
	args := m.Called(ctx, lead)
	return args.Bool(0), args.Error(1)
}

type mockPreviewer struct {
	mock.Mock
}

func (m *mockPreviewer) Preview(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type mockExclusions struct {
	mock.Mock
}

func (m *mockExclusions) Add(email, domain string) {
	m.Called(email, domain)
}

func (m *mockExclusions) Persist() error {
	args := m.Called()
	return args.Error(0)
}

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) Collect(ctx context.Context, maxResults, maxEmails int) []string {
	args := m.Called(ctx, maxResults, maxEmails)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Recipients(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// enrichFunc adapts a function to the Enricher interface.
type enrichFunc func(ctx context.Context, leads []*model.Lead)

func (f enrichFunc) Enrich(ctx context.Context, leads []*model.Lead) { f(ctx, leads) }

// processFunc adapts a function to the Processor interface.
type processFunc func(ctx context.Context, lead *model.Lead) model.Outcome

func (f processFunc) Process(ctx context.Context, lead *model.Lead) model.Outcome {
	return f(ctx, lead)
}

// staticSearcher returns the same ranked results for every query.
type staticSearcher []model.SearchResult

func (s staticSearcher) Search(_ context.Context, _ string, limit int) ([]model.SearchResult, error) {
	if limit > 0 && limit < len(s) {
		return s[:limit], nil
	}
	return s, nil
}

// pageFetcher serves page text by URL; unknown URLs fetch as empty.
type pageFetcher map[string]string

func (f pageFetcher) Fetch(_ context.Context, url string) string { return f[url] }
