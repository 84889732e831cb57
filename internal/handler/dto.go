package handler

import (
	"time"

	"github.com/msomdec/skillbarter/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Avatar            string   `json:"avatar,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	SkillsToTeach     []string `json:"skillsToTeach"`
	SkillsToLearn     []string `json:"skillsToLearn"`
	Credits           int      `json:"credits"`
	Rating            float64  `json:"rating"`
	SessionsCompleted int      `json:"sessionsCompleted"`
	BlockedUserIDs    []string `json:"blockedUserIds"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Avatar:            a.Avatar,
		Bio:               a.Bio,
		SkillsToTeach:     emptyIfNil(a.SkillsToTeach),
		SkillsToLearn:     emptyIfNil(a.SkillsToLearn),
		Credits:           a.Credits,
		Rating:            a.Rating,
		SessionsCompleted: a.SessionsCompleted,
		BlockedUserIDs:    emptyIfNil(a.BlockedUserIDs),
	}
}

// candidateResponse is the partner-directory view of an account. It
// never exposes email or block lists.
type candidateResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Avatar            string   `json:"avatar,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	SkillsToTeach     []string `json:"skillsToTeach"`
	SkillsToLearn     []string `json:"skillsToLearn"`
	Rating            float64  `json:"rating"`
	SessionsCompleted int      `json:"sessionsCompleted"`
}

func toCandidateResponse(a *domain.Account) candidateResponse {
	return candidateResponse{
		ID:                a.ID,
		Name:              a.Name,
		Avatar:            a.Avatar,
		Bio:               a.Bio,
		SkillsToTeach:     emptyIfNil(a.SkillsToTeach),
		SkillsToLearn:     emptyIfNil(a.SkillsToLearn),
		Rating:            a.Rating,
		SessionsCompleted: a.SessionsCompleted,
	}
}

type matchResponse struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requesterId"`
	PartnerID       string    `json:"partnerId"`
	SkillOffered    string    `json:"skillOffered"`
	SkillRequested  string    `json:"skillRequested"`
	Status          string    `json:"status"`
	ScheduledTime   string    `json:"scheduledTime,omitempty"`
	RequestMessage  string    `json:"requestMessage,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	SessionLink     string    `json:"sessionLink,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toMatchResponse(m *domain.BarterMatch) matchResponse {
	return matchResponse{
		ID:              m.ID,
		RequesterID:     m.RequesterID,
		PartnerID:       m.PartnerID,
		SkillOffered:    m.SkillOffered,
		SkillRequested:  m.SkillRequested,
		Status:          m.Status,
		ScheduledTime:   m.ScheduledTime,
		RequestMessage:  m.RequestMessage,
		RejectionReason: m.RejectionReason,
		SessionLink:     m.SessionLink,
		CreatedAt:       m.CreatedAt,
	}
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

type skillRequest struct {
	Mode  string `json:"mode" validate:"required,oneof=learn teach"`
	Skill string `json:"skill" validate:"required"`
}

type blockRequest struct {
	TargetID string `json:"targetId" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

type selectModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=learn teach"`
}

type selectSkillRequest struct {
	Skill string `json:"skill" validate:"required"`
}

type selectPartnerRequest struct {
	PartnerID string `json:"partnerId" validate:"required"`
}

type scheduleRequest struct {
	TimeSlot string `json:"timeSlot" validate:"required"`
}

type navigateRequest struct {
	Screen string `json:"screen" validate:"required"`
}

type respondRequest struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

type startSessionRequest struct {
	MatchID string `json:"matchId" validate:"required"`
}

type endSessionRequest struct {
	// Only a normal, user-initiated end comes over the wire. Fault
	// terminations originate from the session monitor.
	Termination string `json:"termination" validate:"omitempty,oneof=normal"`
}

type ratingRequest struct {
	Stars    int    `json:"stars" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

type chatRequest struct {
	Message string     `json:"message" validate:"required"`
	History []chatTurn `json:"history" validate:"dive"`
}

type chatTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
