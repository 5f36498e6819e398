package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/draw"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/random"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/reveal"
	"github.com/gravadigital/amigo-secreto-api/internal/validation"
)

// ErrInvalidInput wraps every request validation failure
var ErrInvalidInput = errors.New("invalid input")

// TokenIssuer issues organizer tokens for new groups
type TokenIssuer interface {
	Issue(groupID string) (string, time.Time, error)
}

// GroupService maneja la lógica de negocio de los grupos y sus sorteos
type GroupService struct {
	groups     group.Repository
	tokens     TokenIssuer
	reports    report.Store
	drawOpts   draw.Options
	publicURL  string
	groupRules validation.GroupValidation
	rules      validation.ParticipantValidation
	log        *log.Logger
	now        func() time.Time
}

// NewGroupService builds the service. reports may be nil when export is disabled.
func NewGroupService(groups group.Repository, tokens TokenIssuer, reports report.Store, drawOpts draw.Options, publicURL string) *GroupService {
	return &GroupService{
		groups:    groups,
		tokens:    tokens,
		reports:   reports,
		drawOpts:  drawOpts,
		publicURL: publicURL,
		log:       logger.Service("group"),
		now:       time.Now,
	}
}

// DrawOptions maps the configured search budgets and fallbacks
func DrawOptions(cfg config.DrawConfig) draw.Options {
	return draw.Options{
		MaxAttempts:        cfg.MaxAttempts,
		ProbeAttempts:      cfg.ProbeAttempts,
		MultiCycleAttempts: cfg.MultiCycleAttempts,
		AllowRelaxed:       cfg.AllowRelaxed,
		AllowPartial:       cfg.AllowPartial,
		MinCoverage:        cfg.MinCoverage,
	}
}

// ParticipantInput representa un participante en una solicitud
type ParticipantInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// CreateGroupRequest representa una solicitud para crear un grupo
type CreateGroupRequest struct {
	Name         string             `json:"name" binding:"required"`
	Participants []ParticipantInput `json:"participants"`
}

// CreatedGroup is a new group plus the token that manages it
type CreatedGroup struct {
	Group     *group.Group `json:"group"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// CreateGroup crea un grupo con sus participantes iniciales
func (s *GroupService) CreateGroup(req CreateGroupRequest) (*CreatedGroup, error) {
	if err := s.groupRules.ValidateGroupName(req.Name); err != nil {
		return nil, invalid(err)
	}

	g := group.NewGroup(req.Name)
	for _, in := range req.Participants {
		if err := s.validateParticipant(in); err != nil {
			return nil, err
		}
		if _, err := g.AddParticipant(in.Name, in.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.groups.Create(g); err != nil {
		return nil, err
	}

	token, expires, err := s.tokens.Issue(g.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Group created", "group_id", g.ID, "participants", len(g.Participants))
	return &CreatedGroup{Group: g, Token: token, ExpiresAt: expires}, nil
}

// GetGroup obtiene un grupo por su ID
func (s *GroupService) GetGroup(id string) (*group.Group, error) {
	return s.groups.GetByID(id)
}

// DeleteGroup elimina un grupo y su sorteo
func (s *GroupService) DeleteGroup(id string) error {
	if err := s.groups.Delete(id); err != nil {
		return err
	}
	s.log.Info("Group deleted", "group_id", id)
	return nil
}

// AddParticipant agrega un participante. Any existing draw is discarded.
func (s *GroupService) AddParticipant(groupID string, in ParticipantInput) (participant.Participant, error) {
	if err := s.validateParticipant(in); err != nil {
		return participant.Participant{}, err
	}

	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return participant.Participant{}, err
	}

	p, err := g.AddParticipant(in.Name, in.Phone)
	if err != nil {
		return participant.Participant{}, err
	}

	if err := s.groups.Update(g); err != nil {
		return participant.Participant{}, err
	}

	s.log.Info("Participant added", "group_id", groupID, "participant_id", p.ID)
	return p, nil
}

// RemoveParticipant quita un participante y las exclusiones que lo nombraban
func (s *GroupService) RemoveParticipant(groupID, participantID string) error {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return err
	}

	if err := g.RemoveParticipant(participantID); err != nil {
		return err
	}

	if err := s.groups.Update(g); err != nil {
		return err
	}

	s.log.Info("Participant removed", "group_id", groupID, "participant_id", participantID)
	return nil
}

// UpdateBlacklist reemplaza las exclusiones de un participante
func (s *GroupService) UpdateBlacklist(groupID, participantID string, excluded []string) (participant.Participant, error) {
	if err := s.rules.ValidateExclusions(excluded); err != nil {
		return participant.Participant{}, invalid(err)
	}

	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return participant.Participant{}, err
	}

	if err := g.SetBlacklist(participantID, excluded); err != nil {
		return participant.Participant{}, err
	}

	if err := s.groups.Update(g); err != nil {
		return participant.Participant{}, err
	}

	p, _ := g.Participant(participantID)
	s.log.Info("Blacklist updated", "group_id", groupID, "participant_id", participantID, "excluded", p.Blacklist.Len())
	return p, nil
}

// ValidateGroup runs the feasibility analysis without drawing
func (s *GroupService) ValidateGroup(groupID string) (draw.Validation, error) {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return draw.Validation{}, err
	}

	engine, _, err := s.engine(0, nil, nil)
	if err != nil {
		return draw.Validation{}, err
	}
	return engine.Validate(g.Participants), nil
}

// DrawRequest overrides the configured fallbacks for one draw
type DrawRequest struct {
	Relaxed *bool `json:"relaxed"`
	Partial *bool `json:"partial"`
	// Seed replays a previous draw; 0 draws a fresh seed
	Seed int64 `json:"seed"`
}

// DrawResult is the stored draw and how it was produced
type DrawResult struct {
	Group    *group.Group    `json:"group"`
	Mode     draw.Mode       `json:"mode"`
	Coverage float64         `json:"coverage"`
	Seed     int64           `json:"seed"`
	Cycles   []Cycle         `json:"cycles"`
	Analysis draw.Validation `json:"validation"`
}

// Draw sorts the group and stores the result. Drawing again replaces the
// previous result and stamps a new draw id.
func (s *GroupService) Draw(groupID string, req DrawRequest) (*DrawResult, error) {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}

	engine, seed, err := s.engine(req.Seed, req.Relaxed, req.Partial)
	if err != nil {
		return nil, err
	}

	drawLog := logger.Draw().With("group_id", groupID, "participants", len(g.Participants), "seed", seed)
	start := s.now()

	outcome, err := engine.Draw(g.Participants)
	if err != nil {
		drawLog.Warn("Draw failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	g.ApplyDraw(outcome.Assignment, string(outcome.Mode), outcome.Coverage, s.now())
	if err := s.groups.Update(g); err != nil {
		return nil, err
	}

	drawLog.Info("Draw completed",
		"draw_id", g.DrawID,
		"mode", outcome.Mode,
		"coverage", outcome.Coverage,
		"duration", time.Since(start))

	return &DrawResult{
		Group:    g,
		Mode:     outcome.Mode,
		Coverage: outcome.Coverage,
		Seed:     seed,
		Cycles:   cyclesOf(g),
		Analysis: outcome.Validation,
	}, nil
}

// CycleMember is one participant inside a cycle
type CycleMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cycle lists who gives to whom, in gift order
type Cycle struct {
	Members []CycleMember `json:"members"`
	Line    string        `json:"line"`
}

// CyclesView describes the current draw as its cycles
type CyclesView struct {
	DrawID   string  `json:"draw_id"`
	Mode     string  `json:"mode"`
	Coverage float64 `json:"coverage"`
	Cycles   []Cycle `json:"cycles"`
	// Unassigned lists participants a partial draw left out
	Unassigned []CycleMember `json:"unassigned,omitempty"`
}

// Cycles returns the current draw decomposed into its gift cycles
func (s *GroupService) Cycles(groupID string) (*CyclesView, error) {
	g, err := s.drawnGroup(groupID)
	if err != nil {
		return nil, err
	}

	view := &CyclesView{
		DrawID:   g.DrawID,
		Mode:     g.DrawMode,
		Coverage: g.Coverage,
		Cycles:   cyclesOf(g),
	}
	for _, p := range g.Participants {
		if _, ok := g.DrawResults[p.ID]; !ok {
			view.Unassigned = append(view.Unassigned, CycleMember{ID: p.ID, Name: p.Name})
		}
	}
	return view, nil
}

// Link is the personal reveal link of one giver
type Link struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Link          string `json:"link"`
	WhatsApp      string `json:"whatsapp,omitempty"`
}

// Links builds the reveal link of every participant that has a receiver
func (s *GroupService) Links(groupID string) ([]Link, error) {
	g, err := s.drawnGroup(groupID)
	if err != nil {
		return nil, err
	}

	links := make([]Link, 0, len(g.Participants))
	for _, p := range g.Participants {
		receiver, err := g.Receiver(p.ID)
		if err != nil {
			continue
		}

		l := Link{
			ParticipantID: p.ID,
			Name:          p.Name,
			Link:          reveal.BuildLink(s.publicURL, p.Name, receiver.Name),
		}
		if wa, err := reveal.WhatsAppLink(p.Phone, p.Name, l.Link); err == nil {
			l.WhatsApp = wa
		}
		links = append(links, l)
	}
	return links, nil
}

// Reveal decodes a personal link
func (s *GroupService) Reveal(u, f string) (reveal.Result, error) {
	res, err := reveal.Decode(u, f)
	if err != nil {
		return reveal.Result{}, invalid(err)
	}
	return res, nil
}

// Report renders the CSV report of the current draw
func (s *GroupService) Report(groupID string) (*report.Report, error) {
	g, err := s.drawnGroup(groupID)
	if err != nil {
		return nil, err
	}
	return report.Build(g)
}

// ExportReport uploads the report and returns where to download it
func (s *GroupService) ExportReport(ctx context.Context, groupID string) (*report.Export, error) {
	if s.reports == nil {
		return nil, report.ErrExportDisabled
	}

	r, err := s.Report(groupID)
	if err != nil {
		return nil, err
	}

	export, err := s.reports.Put(ctx, r)
	if err != nil {
		return nil, err
	}

	s.log.Info("Report exported", "group_id", groupID, "key", export.Key)
	return export, nil
}

func (s *GroupService) drawnGroup(groupID string) (*group.Group, error) {
	g, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if !g.HasDraw() {
		return nil, group.ErrNoDraw
	}
	return g, nil
}

// engine builds a per-call engine; nil flags keep the configured fallbacks
func (s *GroupService) engine(seed int64, relaxed, partial *bool) (*draw.Engine, int64, error) {
	rng, seed, err := random.NewSource(seed)
	if err != nil {
		return nil, 0, err
	}

	opts := s.drawOpts
	if relaxed != nil {
		opts.AllowRelaxed = *relaxed
	}
	if partial != nil {
		opts.AllowPartial = *partial
	}
	return draw.NewEngine(rng, opts), seed, nil
}

func (s *GroupService) validateParticipant(in ParticipantInput) error {
	if err := s.rules.ValidateParticipantName(in.Name); err != nil {
		return invalid(err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return invalid(err)
	}
	return nil
}

func cyclesOf(g *group.Group) []Cycle {
	ids := draw.ExtractCycles(g.DrawResults, g.ParticipantIDs())
	lines := report.CycleLines(g)

	cycles := make([]Cycle, len(ids))
	for i, cycle := range ids {
		members := make([]CycleMember, len(cycle))
		for k, id := range cycle {
			members[k] = CycleMember{ID: id, Name: g.NameOf(id)}
		}
		cycles[i] = Cycle{Members: members, Line: lines[i]}
	}
	return cycles
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
