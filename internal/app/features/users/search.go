// internal/app/features/users/search.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/skillsync/skillsync/internal/app/store/users"
	"github.com/skillsync/skillsync/internal/app/system/httpjson"
	"github.com/skillsync/skillsync/internal/app/system/paging"
	"github.com/skillsync/skillsync/internal/app/system/timeouts"
)

// ServeSearch lists users filtered by skill and/or name.
// GET /users?skill=go&name=ada
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	f := userstore.SearchFilter{
		Skill: query.Get(r, "skill"),
		Name:  query.Get(r, "name"),
	}
	limit := int64(paging.ParseLimit(r))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := userstore.New(h.DB).Search(ctx, f, limit)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.OK(w, map[string]any{"users": users})
}
