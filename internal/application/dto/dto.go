// Package dto contains the flat, JSON-ready projections of domain entities
// handed to presentation layers. Dates are RFC 3339 strings in UTC and tag
// lists are never nil.
package dto

import (
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/about"
	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/domain/user"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT
// ══════════════════════════════════════════════════════════════════════════════

type ProjectDto struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	GitHubURL   *string  `json:"githubUrl,omitempty"`
	WebsiteURL  *string  `json:"websiteUrl,omitempty"`
	Tags        []string `json:"tags"`
	StarCount   int      `json:"starCount"`
	ForkCount   int      `json:"forkCount"`
	Featured    bool     `json:"featured"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func FromProject(p *project.Project) ProjectDto {
	return ProjectDto{
		ID:          p.ID().String(),
		Slug:        p.Slug().String(),
		Title:       p.Title(),
		Description: p.Description(),
		Category:    string(p.Category()),
		Status:      string(p.Status()),
		GitHubURL:   optional(p.GitHubURL()),
		WebsiteURL:  optional(p.WebsiteURL()),
		Tags:        tags(p.Tags()),
		StarCount:   p.Stars(),
		ForkCount:   p.Forks(),
		Featured:    p.Featured(),
		CreatedAt:   timeutil.FormatISO(p.CreatedAt()),
		UpdatedAt:   timeutil.FormatISO(p.UpdatedAt()),
	}
}

type ProjectStatsDto struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	Completed   int            `json:"completed"`
	Planning    int            `json:"planning"`
	Archived    int            `json:"archived"`
	ByCategory  map[string]int `json:"byCategory"`
	TotalStars  int            `json:"totalStars"`
	TotalForks  int            `json:"totalForks"`
	PopularTags []TagCountDto  `json:"popularTags"`
}

func FromProjectStats(s project.Stats) ProjectStatsDto {
	byCategory := make(map[string]int, len(s.ByCategory))
	for c, n := range s.ByCategory {
		byCategory[string(c)] = n
	}
	return ProjectStatsDto{
		Total:       s.Total,
		Active:      s.Active,
		Completed:   s.Completed,
		Planning:    s.Planning,
		Archived:    s.Archived,
		ByCategory:  byCategory,
		TotalStars:  s.TotalStars,
		TotalForks:  s.TotalForks,
		PopularTags: []TagCountDto{},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT
// ══════════════════════════════════════════════════════════════════════════════

type LocationDto struct {
	Name      string   `json:"name,omitempty"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	Country   string   `json:"country,omitempty"`
	IsOnline  bool     `json:"isOnline"`
	OnlineURL *string  `json:"onlineUrl,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Display   string   `json:"display"`
}

type EventDto struct {
	ID                  string      `json:"id"`
	Slug                string      `json:"slug"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Type                string      `json:"type"`
	TypeName            string      `json:"typeName"`
	Icon                string      `json:"icon"`
	Status              string      `json:"status"`
	StartDate           string      `json:"startDate"`
	EndDate             string      `json:"endDate"`
	Location            LocationDto `json:"location"`
	Tags                []string    `json:"tags"`
	MaxParticipants     *int        `json:"maxParticipants,omitempty"`
	CurrentParticipants int         `json:"currentParticipants"`
	AvailableSpots      *int        `json:"availableSpots,omitempty"`
	RegistrationOpen    bool        `json:"registrationOpen"`
	CreatedAt           string      `json:"createdAt"`
	UpdatedAt           string      `json:"updatedAt"`
}

// FromEvent maps e. Status is the effective status at now; uncapped events
// leave MaxParticipants and AvailableSpots unset.
func FromEvent(e *event.Event, now time.Time) EventDto {
	loc := e.Location()
	lp := loc.Params()
	d := EventDto{
		ID:          e.ID().String(),
		Slug:        e.Slug().String(),
		Title:       e.Title(),
		Description: e.Description(),
		Type:        string(e.Type()),
		TypeName:    e.Type().DisplayName(),
		Icon:        e.Type().Icon(),
		Status:      string(e.EffectiveStatus(now)),
		StartDate:   timeutil.FormatISO(e.StartDate()),
		EndDate:     timeutil.FormatISO(e.EndDate()),
		Location: LocationDto{
			Name:      lp.Name,
			Address:   lp.Address,
			City:      lp.City,
			Country:   lp.Country,
			IsOnline:  lp.Online,
			OnlineURL: optional(lp.OnlineURL),
			Latitude:  lp.Latitude,
			Longitude: lp.Longitude,
			Display:   loc.DisplayName(),
		},
		Tags:                tags(e.Tags()),
		CurrentParticipants: e.CurrentParticipants(),
		RegistrationOpen:    e.IsRegistrationOpen(),
		CreatedAt:           timeutil.FormatISO(e.CreatedAt()),
		UpdatedAt:           timeutil.FormatISO(e.UpdatedAt()),
	}
	if e.IsCapped() {
		limit := e.MaxParticipants()
		d.MaxParticipants = &limit
	}
	if spots, ok := e.AvailableSpots(); ok {
		d.AvailableSpots = &spots
	}
	return d
}

type EventStatsDto struct {
	Total           int            `json:"total"`
	Upcoming        int            `json:"upcoming"`
	Ongoing         int            `json:"ongoing"`
	Past            int            `json:"past"`
	Cancelled       int            `json:"cancelled"`
	Online          int            `json:"online"`
	ByType          map[string]int `json:"byType"`
	TotalCapacity   int            `json:"totalCapacity"`
	TotalRegistered int            `json:"totalRegistered"`
	PopularTags     []TagCountDto  `json:"popularTags"`
}

func FromEventStats(s event.Stats) EventStatsDto {
	byType := make(map[string]int, len(s.ByType))
	for t, n := range s.ByType {
		byType[string(t)] = n
	}
	return EventStatsDto{
		Total:           s.Total,
		Upcoming:        s.Upcoming,
		Ongoing:         s.Ongoing,
		Past:            s.Past,
		Cancelled:       s.Cancelled,
		Online:          s.Online,
		ByType:          byType,
		TotalCapacity:   s.TotalCapacity,
		TotalRegistered: s.TotalRegistered,
		PopularTags:     []TagCountDto{},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// NEWS
// ══════════════════════════════════════════════════════════════════════════════

type NewsDto struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category"`
	AuthorID    string   `json:"authorId"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
	PublishedAt *string  `json:"publishedAt,omitempty"`
	ReadingTime int      `json:"readingTime"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// FromArticle maps a with its full content.
func FromArticle(a *news.Article) NewsDto {
	d := FromArticleSummary(a)
	d.Content = a.Content()
	return d
}

// FromArticleSummary maps a without its content, for listings.
func FromArticleSummary(a *news.Article) NewsDto {
	d := NewsDto{
		ID:          a.ID().String(),
		Slug:        a.Slug().String(),
		Title:       a.Title(),
		Excerpt:     a.Excerpt(),
		Category:    string(a.Category()),
		AuthorID:    a.AuthorID().String(),
		Tags:        tags(a.Tags()),
		Featured:    a.IsFeatured(),
		Published:   a.IsPublished(),
		ReadingTime: a.ReadingTime().Minutes(),
		CreatedAt:   timeutil.FormatISO(a.CreatedAt()),
		UpdatedAt:   timeutil.FormatISO(a.UpdatedAt()),
	}
	if at, ok := a.PublishedAt(); ok {
		s := timeutil.FormatISO(at)
		d.PublishedAt = &s
	}
	return d
}

// NewsDetailDto is a single article page with related reading.
type NewsDetailDto struct {
	Article NewsDto   `json:"article"`
	Related []NewsDto `json:"related"`
}

type NewsStatsDto struct {
	Total               int            `json:"total"`
	Published           int            `json:"published"`
	Drafts              int            `json:"drafts"`
	Featured            int            `json:"featured"`
	ByCategory          map[string]int `json:"byCategory"`
	TotalReadingMinutes int            `json:"totalReadingMinutes"`
	PopularTags         []TagCountDto  `json:"popularTags"`
}

func FromNewsStats(s news.Stats) NewsStatsDto {
	byCategory := make(map[string]int, len(s.ByCategory))
	for c, n := range s.ByCategory {
		byCategory[string(c)] = n
	}
	return NewsStatsDto{
		Total:               s.Total,
		Published:           s.Published,
		Drafts:              s.Drafts,
		Featured:            s.Featured,
		ByCategory:          byCategory,
		TotalReadingMinutes: s.TotalReadingMinutes,
		PopularTags:         []TagCountDto{},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// USER & ABOUT
// ══════════════════════════════════════════════════════════════════════════════

type UserDto struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func FromUser(u *user.User) UserDto {
	return UserDto{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		Name:      u.Name(),
		Role:      u.Role().String(),
		CreatedAt: timeutil.FormatISO(u.CreatedAt()),
		UpdatedAt: timeutil.FormatISO(u.UpdatedAt()),
	}
}

type TeamMemberDto struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Department string   `json:"department,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills"`
	Featured   bool     `json:"featured"`
	JoinedAt   *string  `json:"joinedAt,omitempty"`
}

func FromTeamMember(m about.TeamMember) TeamMemberDto {
	d := TeamMemberDto{
		ID:         m.ID().String(),
		Name:       m.Name(),
		Role:       m.Role(),
		Department: m.Department(),
		Bio:        m.Bio(),
		Skills:     tags(m.Skills()),
		Featured:   m.IsFeatured(),
	}
	if !m.JoinedAt().IsZero() {
		s := timeutil.FormatISO(m.JoinedAt())
		d.JoinedAt = &s
	}
	return d
}

type CoreValueDto struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type PrincipleDto struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Category    string `json:"category,omitempty"`
}

type AboutStatsDto struct {
	TeamSize      int `json:"teamSize"`
	ActiveMembers int `json:"activeMembers"`
	Departments   int `json:"departments"`
	CoreValues    int `json:"coreValues"`
	Principles    int `json:"principles"`
}

type AboutPageDto struct {
	Name        string          `json:"name"`
	Mission     string          `json:"mission"`
	Vision      string          `json:"vision,omitempty"`
	FoundedYear int             `json:"foundedYear,omitempty"`
	Values      []CoreValueDto  `json:"values"`
	Principles  []PrincipleDto  `json:"principles"`
	Team        []TeamMemberDto `json:"team"`
	Stats       AboutStatsDto   `json:"stats"`
}

// FromOrganization builds the about page: sorted values and principles and
// the active team in display order.
func FromOrganization(org *about.Organization) AboutPageDto {
	values := about.SortCoreValues(org.CoreValues())
	principles := about.SortPrinciples(org.Principles())
	team := org.ActiveTeam()
	stats := about.GetAboutStats(org)

	page := AboutPageDto{
		Name:        org.Name(),
		Mission:     org.Mission(),
		Vision:      org.Vision(),
		FoundedYear: org.FoundedYear(),
		Values:      make([]CoreValueDto, len(values)),
		Principles:  make([]PrincipleDto, len(principles)),
		Team:        make([]TeamMemberDto, len(team)),
		Stats: AboutStatsDto{
			TeamSize:      stats.TeamSize,
			ActiveMembers: stats.ActiveMembers,
			Departments:   stats.Departments,
			CoreValues:    stats.CoreValues,
			Principles:    stats.Principles,
		},
	}
	for i, v := range values {
		page.Values[i] = CoreValueDto{Key: v.Key().String(), Title: v.Title(), Description: v.Description(), Icon: v.Icon()}
	}
	for i, p := range principles {
		page.Principles[i] = PrincipleDto{
			Key:         p.Key().String(),
			Title:       p.Title(),
			Description: p.Description(),
			Priority:    p.Priority(),
			Category:    p.Category(),
		}
	}
	for i, m := range team {
		page.Team[i] = FromTeamMember(m)
	}
	return page
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED
// ══════════════════════════════════════════════════════════════════════════════

type TagCountDto struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func FromTagCounts(counts []shared.TagCount) []TagCountDto {
	out := make([]TagCountDto, len(counts))
	for i, c := range counts {
		out[i] = TagCountDto{Tag: c.Tag, Count: c.Count}
	}
	return out
}

// PageDto is one page of a listing.
type PageDto[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// FromPage maps every item of p with fn.
func FromPage[T, U any](p shared.Page[T], fn func(T) U) PageDto[U] {
	mapped := shared.MapPage(p, fn)
	return PageDto[U]{
		Items:      mapped.Items,
		Total:      mapped.Total,
		Page:       mapped.Page,
		Limit:      mapped.Limit,
		TotalPages: mapped.TotalPages,
		HasMore:    mapped.HasMore(),
	}
}

func tags(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
