package service

import (
	"context"
	"strings"
	"time"

	"micropantry-api/internal/config"
	"micropantry-api/internal/model"
	"micropantry-api/internal/repository"
	"micropantry-api/pkg/uid"
)

// DonationInput is a donation note as submitted by a donor.
type DonationInput struct {
	Note          string   `json:"note"`
	DonationSize  string   `json:"donationSize"`
	DonationItems []string `json:"donationItems"`
	PhotoURLs     []string `json:"photoUrls"`
}

// DonationPage is one page of the recent donation log.
type DonationPage struct {
	Items    []model.DonationNote
	Page     int
	PageSize int
	Total    int64
}

// DonationService records and lists donation notes.
type DonationService struct {
	repo repository.DonationRepository
	cfg  config.DonationConfig
	now  func() time.Time
}

// NewDonationService creates a donation service.
func NewDonationService(repo repository.DonationRepository, cfg config.DonationConfig) *DonationService {
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 5
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &DonationService{repo: repo, cfg: cfg, now: time.Now}
}

// Create stores a note and returns it with its id and timestamp.
func (s *DonationService) Create(ctx context.Context, pantryID string, in DonationInput) (*model.DonationNote, error) {
	size := strings.TrimSpace(in.DonationSize)
	if size == "" {
		return nil, invalid("donationSize", "is required")
	}
	note := &model.DonationNote{
		ID:            uid.WithPrefix("donation"),
		PantryID:      pantryID,
		Note:          strings.TrimSpace(in.Note),
		DonationSize:  size,
		DonationItems: compact(in.DonationItems),
		PhotoURLs:     compact(in.PhotoURLs),
		CreatedAt:     s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Recent lists notes of the configured window, newest first. Invalid page
// numbers fall back to the defaults.
func (s *DonationService) Recent(ctx context.Context, pantryID string, page, pageSize int) (*DonationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	since := s.now().Add(-s.cfg.Window)
	items, total, err := s.repo.ListSince(ctx, pantryID, since, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.DonationNote{}
	}
	return &DonationPage{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
