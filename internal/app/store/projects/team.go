// internal/app/store/projects/team.go

// Team request workflow. Every transition that the capacity and
// pending-uniqueness invariants depend on runs as a single conditional
// UpdateOne whose filter encodes the preconditions, so concurrent
// requests and accepts cannot overshoot max_team_size or double-promote
// a request. When the guarded update matches nothing, the failed
// precondition is worked out from a fresh read purely to report a
// precise error; state is already safe either way.
package projectstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillsync/skillsync/internal/app/system/apperr"
	"github.com/skillsync/skillsync/internal/domain/models"
)

// rosterBelowCap matches documents whose roster still has room.
func rosterBelowCap() bson.M {
	return bson.M{"$expr": bson.M{"$lt": bson.A{
		bson.M{"$size": "$team_members"},
		"$team_settings.max_team_size",
	}}}
}

// SubmitTeamRequest appends a pending request for userID.
//
// Preconditions (all encoded in the update filter): project is
// in-progress, open to requests, userID is not on the roster, has no
// pending request, and the roster is below capacity.
func (s *Store) SubmitTeamRequest(ctx context.Context, projectID, userID primitive.ObjectID, message string, skills []string) (models.TeamRequest, error) {
	if skills == nil {
		skills = []string{}
	}
	req := models.TeamRequest{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Skills:    skills,
		Status:    models.RequestPending,
		CreatedAt: time.Now().UTC(),
	}

	filter := bson.M{
		"_id":                               projectID,
		"status":                            models.ProjectInProgress,
		"team_settings.allow_team_requests": true,
		"team_members": bson.M{"$not": bson.M{"$elemMatch": bson.M{"user_id": userID}}},
		"team_requests": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  models.RequestPending,
		}}},
		"$and": bson.A{rosterBelowCap()},
	}
	update := bson.M{
		"$push": bson.M{"team_requests": req},
		"$set":  bson.M{"updated_at": req.CreatedAt},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.TeamRequest{}, err
	}
	if res.ModifiedCount == 0 {
		return models.TeamRequest{}, s.classifySubmitFailure(ctx, projectID, userID)
	}
	return req, nil
}

// classifySubmitFailure re-reads the project to name the precondition
// that blocked SubmitTeamRequest.
func (s *Store) classifySubmitFailure(ctx context.Context, projectID, userID primitive.ObjectID) error {
	p, err := s.GetByID(ctx, projectID)
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, "NOT_FOUND", "project not found")
	}
	if err != nil {
		return err
	}

	switch {
	case p.Status != models.ProjectInProgress:
		return apperr.New(apperr.Precondition, "PROJECT_NOT_ACTIVE", "project is not accepting team members")
	case !p.TeamSettings.AllowTeamRequests:
		return apperr.New(apperr.Precondition, "REQUESTS_CLOSED", "project is not open to team requests")
	case rosterHas(p, userID):
		return apperr.New(apperr.Precondition, "ALREADY_MEMBER", "user is already on the team")
	case hasPendingRequest(p, userID):
		return apperr.New(apperr.Precondition, "REQUEST_PENDING", "a request from this user is already pending")
	case len(p.TeamMembers) >= p.TeamSettings.MaxTeamSize:
		return apperr.New(apperr.Precondition, "TEAM_FULL", "team is at capacity")
	default:
		// The guarded update lost a race that has since resolved;
		// report the generic conflict.
		return apperr.New(apperr.Precondition, "CONFLICT", "request could not be submitted")
	}
}

// AcceptTeamRequest flips a pending request to accepted and appends the
// requester to the roster in one guarded update. The capacity check
// rides in the same filter, which closes the race between two accepts
// that each fit individually but not together.
func (s *Store) AcceptTeamRequest(ctx context.Context, projectID, requestID, actorID primitive.ObjectID) (models.Project, error) {
	p, err := s.GetByID(ctx, projectID)
	if err == mongo.ErrNoDocuments {
		return models.Project{}, apperr.New(apperr.NotFound, "NOT_FOUND", "project not found")
	}
	if err != nil {
		return models.Project{}, err
	}

	req, ok := findRequest(p, requestID)
	if !ok {
		return models.Project{}, apperr.New(apperr.NotFound, "REQUEST_NOT_FOUND", "team request not found")
	}
	if req.Status != models.RequestPending {
		return models.Project{}, apperr.New(apperr.Precondition, "ALREADY_DECIDED", "team request was already decided")
	}

	now := time.Now().UTC()
	member := models.TeamMember{
		UserID:   req.UserID,
		Role:     models.TeamRoleMember,
		JoinedAt: now,
		Skills:   req.Skills,
	}

	filter := bson.M{
		"_id": projectID,
		"team_requests": bson.M{"$elemMatch": bson.M{
			"_id":    requestID,
			"status": models.RequestPending,
		}},
		"team_members": bson.M{"$not": bson.M{"$elemMatch": bson.M{"user_id": req.UserID}}},
		"$and":         bson.A{rosterBelowCap()},
	}
	update := bson.M{
		"$set": bson.M{
			"team_requests.$[req].status":     models.RequestAccepted,
			"team_requests.$[req].decided_at": now,
			"team_requests.$[req].decided_by": actorID,
			"updated_at":                      now,
		},
		"$push": bson.M{"team_members": member},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"req._id": requestID}},
	})

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return models.Project{}, err
	}
	if res.ModifiedCount == 0 {
		// The read above saw a pending request, so the guarded update
		// lost a race: either a concurrent decision or the roster
		// filled up. Re-read to tell them apart.
		fresh, ferr := s.GetByID(ctx, projectID)
		if ferr != nil {
			return models.Project{}, ferr
		}
		if r, ok := findRequest(fresh, requestID); ok && r.Status != models.RequestPending {
			return models.Project{}, apperr.New(apperr.Precondition, "ALREADY_DECIDED", "team request was already decided")
		}
		return models.Project{}, apperr.New(apperr.Precondition, "TEAM_FULL", "accepting this request would exceed the team size limit")
	}

	return s.GetByID(ctx, projectID)
}

// RejectTeamRequest flips a pending request to rejected. No roster
// change, no capacity concern.
func (s *Store) RejectTeamRequest(ctx context.Context, projectID, requestID, actorID primitive.ObjectID) (models.Project, error) {
	now := time.Now().UTC()

	filter := bson.M{
		"_id": projectID,
		"team_requests": bson.M{"$elemMatch": bson.M{
			"_id":    requestID,
			"status": models.RequestPending,
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"team_requests.$[req].status":     models.RequestRejected,
			"team_requests.$[req].decided_at": now,
			"team_requests.$[req].decided_by": actorID,
			"updated_at":                      now,
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"req._id": requestID}},
	})

	res, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return models.Project{}, err
	}
	if res.ModifiedCount == 0 {
		p, ferr := s.GetByID(ctx, projectID)
		if ferr == mongo.ErrNoDocuments {
			return models.Project{}, apperr.New(apperr.NotFound, "NOT_FOUND", "project not found")
		}
		if ferr != nil {
			return models.Project{}, ferr
		}
		if _, ok := findRequest(p, requestID); !ok {
			return models.Project{}, apperr.New(apperr.NotFound, "REQUEST_NOT_FOUND", "team request not found")
		}
		return models.Project{}, apperr.New(apperr.Precondition, "ALREADY_DECIDED", "team request was already decided")
	}

	return s.GetByID(ctx, projectID)
}

// RemoveMember pulls a non-owner member off the roster. The owner is
// excluded inside the $pull condition so no path can remove them.
func (s *Store) RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{
			"$pull": bson.M{"team_members": bson.M{
				"user_id": memberID,
				"role":    bson.M{"$ne": models.TeamRoleOwner},
			}},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "NOT_FOUND", "project not found")
	}
	if res.ModifiedCount == 0 {
		p, ferr := s.GetByID(ctx, projectID)
		if ferr != nil {
			return ferr
		}
		if role, ok := findRole(p, memberID); ok && role == models.TeamRoleOwner {
			return apperr.New(apperr.Precondition, "OWNER_IMMOVABLE", "the project owner cannot be removed")
		}
		return apperr.New(apperr.NotFound, "MEMBER_NOT_FOUND", "user is not on the team")
	}
	return nil
}

// SetMemberRole promotes or demotes a non-owner member between admin
// and member.
func (s *Store) SetMemberRole(ctx context.Context, projectID, memberID primitive.ObjectID, role string) error {
	if role != models.TeamRoleAdmin && role != models.TeamRoleMember {
		return apperr.New(apperr.Validation, "BAD_ROLE", "role must be admin or member")
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id": projectID,
			"team_members": bson.M{"$elemMatch": bson.M{
				"user_id": memberID,
				"role":    bson.M{"$ne": models.TeamRoleOwner},
			}},
		},
		bson.M{"$set": bson.M{
			"team_members.$.role": role,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "MEMBER_NOT_FOUND", "no removable member with this id")
	}
	return nil
}

func rosterHas(p models.Project, userID primitive.ObjectID) bool {
	_, ok := findRole(p, userID)
	return ok
}

func findRole(p models.Project, userID primitive.ObjectID) (string, bool) {
	for _, m := range p.TeamMembers {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

func hasPendingRequest(p models.Project, userID primitive.ObjectID) bool {
	for _, r := range p.TeamRequests {
		if r.UserID == userID && r.Status == models.RequestPending {
			return true
		}
	}
	return false
}

func findRequest(p models.Project, requestID primitive.ObjectID) (models.TeamRequest, bool) {
	for _, r := range p.TeamRequests {
		if r.ID == requestID {
			return r, true
		}
	}
	return models.TeamRequest{}, false
}
