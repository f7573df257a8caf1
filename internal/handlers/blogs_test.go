package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dailyreadnest/backend/internal/blogs"
)

func newBlogFixture() (*inMemoryUserStore, *inMemorySocialStore, *inMemoryBlogStore) {
	users, store := newSocialFixture()
	return users, store, newInMemoryBlogStore(users)
}

func TestBlogHandlerCreateReturnsCollection(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	for i := 1; i <= 2; i++ {
		body, err := json.Marshal(blogRequest{Content: fmt.Sprintf("entry %d", i)})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		rec := httptest.NewRecorder()
		handler.Create(rec, authedRequest(http.MethodPost, "/api/v1/blogs", "user-1", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}

		var resp map[string][]blogResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp["blogs"]) != i {
			t.Fatalf("expected %d blogs in response, got %d", i, len(resp["blogs"]))
		}
	}
}

func TestBlogHandlerCreateEnforcesLimit(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	for i := 0; i < blogs.MaxPerUser; i++ {
		if _, err := blogStore.Add(ctx, "user-1", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("seed blog %d: %v", i, err)
		}
	}

	body, err := json.Marshal(blogRequest{Content: "one too many"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/v1/blogs", "user-1", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}

	page, err := blogStore.List(ctx, "user-1", 1, blogs.MaxPerUser)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalBlogs != blogs.MaxPerUser {
		t.Fatalf("expected collection unchanged at %d, got %d", blogs.MaxPerUser, page.TotalBlogs)
	}
}

func TestBlogHandlerCreateRejectsEmptyContent(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	body, err := json.Marshal(blogRequest{Content: "   "})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(http.MethodPost, "/api/v1/blogs", "user-1", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestBlogHandlerListOwnPaginates(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	for i := 0; i < blogs.MaxPerUser; i++ {
		if _, err := blogStore.Add(ctx, "user-1", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("seed blog %d: %v", i, err)
		}
	}

	// Page 1 with the default page size carries the full collection.
	rec := httptest.NewRecorder()
	handler.ListOwn(rec, authedRequest(http.MethodGet, "/api/v1/blogs", "user-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var first blogPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(first.Blogs) != blogs.MaxPerUser || first.TotalBlogs != blogs.MaxPerUser {
		t.Fatalf("expected full first page, got %d of %d", len(first.Blogs), first.TotalBlogs)
	}

	// Page 2 is past the end: empty window, same total.
	rec = httptest.NewRecorder()
	handler.ListOwn(rec, authedRequest(http.MethodGet, "/api/v1/blogs?page=2", "user-1", nil))

	var second blogPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&second); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(second.Blogs) != 0 || second.TotalBlogs != blogs.MaxPerUser {
		t.Fatalf("expected empty second page with total %d, got %d of %d", blogs.MaxPerUser, len(second.Blogs), second.TotalBlogs)
	}

	// A smaller explicit limit windows the collection.
	rec = httptest.NewRecorder()
	handler.ListOwn(rec, authedRequest(http.MethodGet, "/api/v1/blogs?page=2&limit=2", "user-1", nil))

	var windowed blogPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&windowed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(windowed.Blogs) != 2 || windowed.TotalBlogs != blogs.MaxPerUser {
		t.Fatalf("expected window of 2, got %d of %d", len(windowed.Blogs), windowed.TotalBlogs)
	}
	if windowed.Blogs[0].Content != "entry 2" {
		t.Fatalf("expected window to start at third entry, got %q", windowed.Blogs[0].Content)
	}
}

func TestBlogHandlerListUserRequiresFriendship(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	if _, err := blogStore.Add(ctx, "user-2", "private musings"); err != nil {
		t.Fatalf("seed blog: %v", err)
	}

	req := authedRequest(http.MethodGet, "/api/v1/users/user-2/blogs", "user-1", nil)
	req = withURLParams(req, map[string]string{"userID": "user-2"})
	rec := httptest.NewRecorder()

	handler.ListUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d: %s", http.StatusForbidden, rec.Code, rec.Body.String())
	}

	// A pending request is not enough.
	if err := store.SendRequest(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("send request: %v", err)
	}

	req = authedRequest(http.MethodGet, "/api/v1/users/user-2/blogs", "user-1", nil)
	req = withURLParams(req, map[string]string{"userID": "user-2"})
	rec = httptest.NewRecorder()

	handler.ListUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}

	// Friendship unlocks the collection.
	if err := store.AcceptRequest(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("accept request: %v", err)
	}

	req = authedRequest(http.MethodGet, "/api/v1/users/user-2/blogs", "user-1", nil)
	req = withURLParams(req, map[string]string{"userID": "user-2"})
	rec = httptest.NewRecorder()

	handler.ListUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp blogPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalBlogs != 1 || len(resp.Blogs) != 1 {
		t.Fatalf("expected one visible blog, got %+v", resp)
	}
}

func TestBlogHandlerListUserSelf(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	if _, err := blogStore.Add(context.Background(), "user-1", "my own entry"); err != nil {
		t.Fatalf("seed blog: %v", err)
	}

	req := authedRequest(http.MethodGet, "/api/v1/users/user-1/blogs", "user-1", nil)
	req = withURLParams(req, map[string]string{"userID": "user-1"})
	rec := httptest.NewRecorder()

	handler.ListUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
}

func TestBlogHandlerListUserUnknownOwner(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	// Unknown owners are indistinguishable from non-friends.
	req := authedRequest(http.MethodGet, "/api/v1/users/ghost/blogs", "user-1", nil)
	req = withURLParams(req, map[string]string{"userID": "ghost"})
	rec := httptest.NewRecorder()

	handler.ListUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
}

func TestBlogHandlerUpdateAndDelete(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	collection, err := blogStore.Add(ctx, "user-1", "first draft")
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	blogID := collection[0].ID

	body, err := json.Marshal(blogRequest{Content: "second draft"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPut, "/api/v1/blogs/"+blogID, "user-1", body)
	req = withURLParams(req, map[string]string{"blogID": blogID})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if got := blogStore.collection["user-1"][0].Content; got != "second draft" {
		t.Fatalf("expected content to change, got %q", got)
	}

	req = authedRequest(http.MethodDelete, "/api/v1/blogs/"+blogID, "user-1", nil)
	req = withURLParams(req, map[string]string{"blogID": blogID})
	rec = httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if len(blogStore.collection["user-1"]) != 0 {
		t.Fatal("expected blog to be deleted")
	}
}

func TestBlogHandlerUpdateSomeoneElsesBlog(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	collection, err := blogStore.Add(context.Background(), "user-2", "not yours")
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	blogID := collection[0].ID

	body, err := json.Marshal(blogRequest{Content: "hijacked"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPut, "/api/v1/blogs/"+blogID, "user-1", body)
	req = withURLParams(req, map[string]string{"blogID": blogID})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBlogHandlerAddComment(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	collection, err := blogStore.Add(ctx, "user-2", "a fine entry")
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	blogID := collection[0].ID

	if err := store.SendRequest(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := store.AcceptRequest(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("accept request: %v", err)
	}

	body, err := json.Marshal(commentRequest{Text: "lovely read"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/users/user-2/blogs/"+blogID+"/comments", "user-1", body)
	req = withURLParams(req, map[string]string{"userID": "user-2", "blogID": blogID})
	rec := httptest.NewRecorder()

	handler.AddComment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp commentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AuthorID != "user-1" || resp.AuthorName != "Ada" || resp.Text != "lovely read" {
		t.Fatalf("unexpected comment payload: %+v", resp)
	}
}

func TestBlogHandlerAddCommentRequiresFriendship(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	collection, err := blogStore.Add(context.Background(), "user-2", "a fine entry")
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	blogID := collection[0].ID

	body, err := json.Marshal(commentRequest{Text: "drive-by"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/users/user-2/blogs/"+blogID+"/comments", "user-1", body)
	req = withURLParams(req, map[string]string{"userID": "user-2", "blogID": blogID})
	rec := httptest.NewRecorder()

	handler.AddComment(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if len(blogStore.collection["user-2"][0].Comments) != 0 {
		t.Fatal("expected no comment to be stored")
	}
}

func TestBlogHandlerAddCommentUnknownBlog(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	ctx := context.Background()
	if err := store.SendRequest(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if err := store.AcceptRequest(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("accept request: %v", err)
	}

	body, err := json.Marshal(commentRequest{Text: "hello?"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/users/user-2/blogs/nope/comments", "user-1", body)
	req = withURLParams(req, map[string]string{"userID": "user-2", "blogID": "nope"})
	rec := httptest.NewRecorder()

	handler.AddComment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestBlogHandlerCommentOnOwnBlog(t *testing.T) {
	_, store, blogStore := newBlogFixture()
	handler := BlogHandler{Social: store, Blogs: blogStore}

	collection, err := blogStore.Add(context.Background(), "user-1", "note to self")
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	blogID := collection[0].ID

	body, err := json.Marshal(commentRequest{Text: "remember this"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := authedRequest(http.MethodPost, "/api/v1/users/user-1/blogs/"+blogID+"/comments", "user-1", body)
	req = withURLParams(req, map[string]string{"userID": "user-1", "blogID": blogID})
	rec := httptest.NewRecorder()

	handler.AddComment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
}
