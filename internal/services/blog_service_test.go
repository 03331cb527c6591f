package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopatlas/affiliate-backend/internal/models"
)

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	service := NewBlogService(db)

	post, err := service.CreatePost(&BlogPostInput{
		Title:     "Our Top 10 Picks",
		ContentMD: "# Picks\n\nSome content.",
	})
	require.NoError(t, err)
	assert.Equal(t, "our-top-10-picks", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)

	_, err = service.CreatePost(&BlogPostInput{Title: "Our Top 10 Picks", ContentMD: "x"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestListPostsByStatus(t *testing.T) {
	db := setupTestDB(t)
	service := NewBlogService(db)

	_, err := service.CreatePost(&BlogPostInput{Title: "Draft Post", ContentMD: "x"})
	require.NoError(t, err)
	_, err = service.CreatePost(&BlogPostInput{Title: "Live Post", ContentMD: "x", Status: "published"})
	require.NoError(t, err)

	published, err := service.ListPosts("published")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Live Post", published[0].Title)

	all, err := service.ListPosts("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetPostBySlug(t *testing.T) {
	db := setupTestDB(t)
	service := NewBlogService(db)

	created, err := service.CreatePost(&BlogPostInput{Title: "Findable", ContentMD: "x"})
	require.NoError(t, err)

	found, err := service.GetPostBySlug("findable")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetPostBySlug("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePost(t *testing.T) {
	db := setupTestDB(t)
	service := NewBlogService(db)

	created, err := service.CreatePost(&BlogPostInput{Title: "First Draft", ContentMD: "x"})
	require.NoError(t, err)

	// Omitting status keeps the current one
	_, err = service.UpdatePost(created.ID, &BlogPostInput{Title: "Second Draft", ContentMD: "y"})
	require.NoError(t, err)

	reloaded, err := service.GetPostBySlug("second-draft")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, reloaded.Status)
	assert.Equal(t, "y", reloaded.ContentMD)

	_, err = service.UpdatePost(created.ID, &BlogPostInput{Title: "Second Draft", ContentMD: "y", Status: "published"})
	require.NoError(t, err)

	reloaded, err = service.GetPostBySlug("second-draft")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, reloaded.Status)

	_, err = service.UpdatePost(9999, &BlogPostInput{Title: "Ghost", ContentMD: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
