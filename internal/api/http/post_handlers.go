package http

import (
	"net/http"

	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
	postservice "github.com/AlibekovAA/microblog/internal/post/service"
)

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !h.decode(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), postservice.CreateInput{
		AuthorID: requester(r),
		Body:     req.Body,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	post, err := h.posts.FindByID(r.Context(), postdomain.ID(id))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.PathInt64(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.posts.DeleteIfOwner(r.Context(), postdomain.ID(id), requester(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) accountPosts(w http.ResponseWriter, r *http.Request) {
	account, ok := h.accountByHandle(w, r)
	if !ok {
		return
	}
	page, size, err := pageParams(r, h.cfg.PostsPerPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.posts.FindByAuthor(r.Context(), account.ID, page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toPageResponse(result, toPostResponse))
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r, h.cfg.PostsPerPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.timeline.FeedPage(r.Context(), requester(r), page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toPageResponse(result, toPostResponse))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	// A malformed limit falls back to the configured maximum.
	limit, _ := commonhttp.QueryInt(r, "limit", 0)

	posts, err := h.posts.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{
		"query": r.URL.Query().Get("q"),
		"items": toPostResponses(posts),
	})
}
