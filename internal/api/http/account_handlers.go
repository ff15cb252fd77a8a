package http

import (
	"net/http"

	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	accountservice "github.com/AlibekovAA/microblog/internal/account/service"
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
	commonhttp "github.com/AlibekovAA/microblog/internal/common/http"
	"github.com/AlibekovAA/microblog/internal/common/logger"
	followdomain "github.com/AlibekovAA/microblog/internal/follow/domain"
)

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.FindByID(r.Context(), requester(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toAccountResponse(account, true))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.accounts.Update(r.Context(), requester(r), accountservice.UpdateInput{
		Handle: req.Handle,
		Bio:    req.Bio,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toAccountResponse(account, true))
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := h.accountByHandle(w, r)
	if !ok {
		return
	}

	counts, err := h.follows.Counts(ctx, account.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	viewer := requester(r)
	isFollowing, err := h.follows.IsFollowing(ctx, viewer, account.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	self := viewer == account.ID
	commonhttp.WriteJSON(w, http.StatusOK, profileResponse{
		accountResponse: toAccountResponse(account, self),
		Followers:       counts.Followers,
		Following:       counts.Following,
		IsFollowing:     isFollowing && !self,
		IsSelf:          self,
	})
}

func (h *Handler) followers(w http.ResponseWriter, r *http.Request) {
	h.summaryList(w, r, true)
}

func (h *Handler) following(w http.ResponseWriter, r *http.Request) {
	h.summaryList(w, r, false)
}

func (h *Handler) summaryList(w http.ResponseWriter, r *http.Request, followers bool) {
	account, ok := h.accountByHandle(w, r)
	if !ok {
		return
	}
	page, size, err := pageParams(r, h.cfg.FollowersPerPage)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list := h.follows.FollowedPage
	if followers {
		list = h.follows.FollowersPage
	}
	result, err := list(r.Context(), account.ID, page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toPageResponse(result, toSummaryResponse))
}

func (h *Handler) follow(w http.ResponseWriter, r *http.Request) {
	target, ok := h.accountByHandle(w, r)
	if !ok {
		return
	}

	result, err := h.follows.Follow(r.Context(), requester(r), target.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Changed() {
		status = http.StatusCreated
	}
	commonhttp.WriteJSON(w, status, toFollowResponse(result))
}

func (h *Handler) unfollow(w http.ResponseWriter, r *http.Request) {
	target, ok := h.accountByHandle(w, r)
	if !ok {
		return
	}

	result, err := h.follows.Unfollow(r.Context(), requester(r), target.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if result == followdomain.CannotUnfollowSelf {
		h.writeError(w, r, commonerrors.ErrCannotUnfollowSelf)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"target": target.Handle,
		"result": result.String(),
		"action": "unfollow_request",
	}).Debug("unfollow request served")
	commonhttp.WriteJSON(w, http.StatusOK, toUnfollowResponse(result))
}

func (h *Handler) accountByHandle(w http.ResponseWriter, r *http.Request) (accountdomain.Account, bool) {
	account, err := h.accounts.FindByHandle(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, r, err)
		return accountdomain.Account{}, false
	}
	return account, true
}
