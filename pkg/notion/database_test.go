package notion

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryAll_SinglePage(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{{ID: "p1"}, {ID: "p2"}},
		}, nil).Once()

	pages, err := QueryAll(ctx, mc, "db-1", nil)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	mc.AssertExpectations(t)
}

func TestQueryAll_FollowsCursor(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == ""
	})).Return(&notionapi.DatabaseQueryResponse{
		Results:    []notionapi.Page{{ID: "p1"}},
		HasMore:    true,
		NextCursor: notionapi.Cursor("cursor-abc"),
	}, nil).Once()

	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == notionapi.Cursor("cursor-abc")
	})).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{{ID: "p2"}},
	}, nil).Once()

	pages, err := QueryAll(ctx, mc, "db-1", nil)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, notionapi.ObjectID("p1"), pages[0].ID)
	assert.Equal(t, notionapi.ObjectID("p2"), pages[1].ID)
	mc.AssertExpectations(t)
}

func TestQueryAll_KeepsFilter(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	filter := notionapi.PropertyFilter{
		Property: "Email",
		RichText: &notionapi.TextFilterCondition{IsNotEmpty: true},
	}
	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		pf, ok := req.Filter.(notionapi.PropertyFilter)
		return ok && pf.Property == "Email" && req.PageSize == 100
	})).Return(&notionapi.DatabaseQueryResponse{}, nil).Once()

	pages, err := QueryAll(ctx, mc, "db-1", &notionapi.DatabaseQueryRequest{Filter: filter})
	require.NoError(t, err)
	assert.Empty(t, pages)
	mc.AssertExpectations(t)
}

func TestQueryAll_Error(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-err", mock.Anything).Return(nil, assert.AnError).Once()

	pages, err := QueryAll(ctx, mc, "db-err", nil)
	assert.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "notion: query all")
}

func TestPropertyBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme.io", Title("acme.io").Title[0].Text.Content)
	assert.Equal(t, "note", RichText("note").RichText[0].Text.Content)
	assert.Equal(t, "https://www.acme.io", URL("https://www.acme.io").URL)
	assert.Equal(t, "Candidature", Select("Candidature").Select.Name)

	ts := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	d := Date(ts)
	require.NotNil(t, d.Date)
	require.NotNil(t, d.Date.Start)
	assert.True(t, time.Time(*d.Date.Start).Equal(ts))
}

func TestEmailOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b.com", EmailOf(Email("a@b.com")))
	assert.Equal(t, "a@b.com", EmailOf(&notionapi.EmailProperty{Email: "a@b.com"}))
	assert.Empty(t, EmailOf(Title("x")))
	assert.Empty(t, EmailOf(nil))
}
