package domain

import "time"

type ID string

type Account struct {
	ID           ID
	Handle       string
	Email        string
	PasswordHash string
	Bio          string
	LastSeen     time.Time
	CreatedAt    time.Time
}

// Summary is the public projection used in follower and followed lists.
type Summary struct {
	ID       ID
	Handle   string
	Email    string
	Bio      string
	LastSeen time.Time
}

func (a Account) Summary() Summary {
	return Summary{
		ID:       a.ID,
		Handle:   a.Handle,
		Email:    a.Email,
		Bio:      a.Bio,
		LastSeen: a.LastSeen,
	}
}

// Changes lists the profile fields an update may touch. Nil means unchanged.
type Changes struct {
	Handle       *string
	Bio          *string
	PasswordHash *string
}

func (c Changes) Empty() bool {
	return c.Handle == nil && c.Bio == nil && c.PasswordHash == nil
}

func (c Changes) Apply(a Account) Account {
	if c.Handle != nil {
		a.Handle = *c.Handle
	}
	if c.Bio != nil {
		a.Bio = *c.Bio
	}
	if c.PasswordHash != nil {
		a.PasswordHash = *c.PasswordHash
	}
	return a
}

func IDs(raw []string) []ID {
	ids := make([]ID, len(raw))
	for i, r := range raw {
		ids[i] = ID(r)
	}
	return ids
}

func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
