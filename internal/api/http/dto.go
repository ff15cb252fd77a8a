package http

import (
	"time"

	"github.com/AlibekovAA/microblog/internal/account/avatar"
	accountdomain "github.com/AlibekovAA/microblog/internal/account/domain"
	"github.com/AlibekovAA/microblog/internal/common/pagination"
	followdomain "github.com/AlibekovAA/microblog/internal/follow/domain"
	postdomain "github.com/AlibekovAA/microblog/internal/post/domain"
)

type registerRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Handle *string `json:"handle"`
	Bio    *string `json:"bio"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type createPostRequest struct {
	Body string `json:"body"`
}

type tokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   accountResponse `json:"account"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type profileResponse struct {
	accountResponse
	Followers   int  `json:"followers"`
	Following   int  `json:"following"`
	IsFollowing bool `json:"is_following"`
	IsSelf      bool `json:"is_self"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type followResponse struct {
	Result  string `json:"result"`
	Changed bool   `json:"changed"`
}

type pageResponse[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// toAccountResponse leaves the email out unless the caller owns the account.
func toAccountResponse(a accountdomain.Account, owner bool) accountResponse {
	resp := accountResponse{
		ID:        string(a.ID),
		Handle:    a.Handle,
		Bio:       a.Bio,
		AvatarURL: avatar.URL(a.Email, 0),
		LastSeen:  a.LastSeen,
		CreatedAt: a.CreatedAt,
	}
	if owner {
		resp.Email = a.Email
	}
	return resp
}

func toSummaryResponse(s accountdomain.Summary) accountResponse {
	return accountResponse{
		ID:        string(s.ID),
		Handle:    s.Handle,
		Bio:       s.Bio,
		AvatarURL: avatar.URL(s.Email, 0),
		LastSeen:  s.LastSeen,
	}
}

func toPostResponse(p postdomain.Post) postResponse {
	return postResponse{
		ID:        int64(p.ID),
		AuthorID:  string(p.AuthorID),
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
	}
}

func toPostResponses(posts []postdomain.Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func toPageResponse[T, R any](p pagination.Page[T], convert func(T) R) pageResponse[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = convert(item)
	}
	return pageResponse[R]{
		Items:      items,
		Page:       p.Number,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}

func toFollowResponse(result followdomain.FollowResult) followResponse {
	return followResponse{Result: result.String(), Changed: result.Changed()}
}

func toUnfollowResponse(result followdomain.UnfollowResult) followResponse {
	return followResponse{Result: result.String(), Changed: result.Changed()}
}
