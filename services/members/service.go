// Package members serves the chamber-of-commerce directory from a static
// JSON snapshot, falling back to a built-in member list when the snapshot
// cannot be loaded.
package members

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/afero"

	"moviedeck/models"
)

// snapshot is the on-disk and over-the-wire document shape.
type snapshot struct {
	Members []models.Member `json:"members"`
}

// Service loads and filters the member directory. Snapshot sources are tried
// in order: local file, remote URL, embedded fallback.
type Service struct {
	fs           afero.Fs
	httpClient   *http.Client
	snapshotPath string
	snapshotURL  string
}

// NewService creates a directory service. Either source may be empty; with
// both empty the embedded fallback is always used.
func NewService(snapshotPath, snapshotURL string) *Service {
	return &Service{
		fs:           afero.NewOsFs(),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		snapshotPath: snapshotPath,
		snapshotURL:  snapshotURL,
	}
}

// NewServiceWithFs creates a directory service reading files through the
// given filesystem. Used by tests.
func NewServiceWithFs(fs afero.Fs, snapshotPath, snapshotURL string) *Service {
	s := NewService(snapshotPath, snapshotURL)
	s.fs = fs
	return s
}

// Load returns the member directory. Every failure path degrades to the next
// source and finally to the embedded fallback, so the caller always receives
// a usable list.
func (s *Service) Load(ctx context.Context) []models.Member {
	if s.snapshotPath != "" {
		members, err := s.loadFromFile()
		if err != nil {
			log.Printf("[members] error reading snapshot file: %v", err)
		} else {
			return members
		}
	}

	if s.snapshotURL != "" {
		members, err := s.loadFromURL(ctx)
		if err != nil {
			log.Printf("[members] error fetching snapshot: %v", err)
		} else {
			return members
		}
	}

	return fallbackMembers()
}

// FilterByLevel keeps members whose membership level is at least minLevel.
func FilterByLevel(members []models.Member, minLevel int) []models.Member {
	if minLevel <= models.MembershipLevelStandard {
		return members
	}
	filtered := make([]models.Member, 0, len(members))
	for _, m := range members {
		if m.MembershipLevel >= minLevel {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func (s *Service) loadFromFile() ([]models.Member, error) {
	data, err := afero.ReadFile(s.fs, s.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return parseSnapshot(data)
}

func (s *Service) loadFromURL(ctx context.Context) ([]models.Member, error) {
	var members []models.Member

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.snapshotURL, nil)
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("http request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status: %d", resp.StatusCode)
			}

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			members, err = parseSnapshot(data)
			return err
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func parseSnapshot(data []byte) ([]models.Member, error) {
	var doc snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(doc.Members) == 0 {
		return nil, fmt.Errorf("snapshot contains no members")
	}
	return doc.Members, nil
}

// fallbackMembers is the hardcoded directory used when no snapshot source is
// available.
func fallbackMembers() []models.Member {
	return []models.Member{
		{
			Name:            "Kambale Enterprises",
			Address:         "123 Main Street, Kambale City",
			Phone:           "+243 999 888 777",
			URL:             "https://kambale-enterprises.com",
			ImageURL:        "https://placehold.co/300x200/1a2a6c/ffffff?text=Kambale+Enterprises",
			MembershipLevel: models.MembershipLevelGold,
			Description:     "Leading provider of technology solutions and consulting services",
		},
		{
			Name:            "Riverside Bakery",
			Address:         "45 River Road, Kambale City",
			Phone:           "+243 999 111 222",
			URL:             "https://riverside-bakery.example.com",
			ImageURL:        "https://placehold.co/300x200/b21f1f/ffffff?text=Riverside+Bakery",
			MembershipLevel: models.MembershipLevelStandard,
			Description:     "Family-owned bakery serving fresh bread and pastries since 1998",
		},
		{
			Name:            "Summit Legal Group",
			Address:         "78 Hilltop Avenue, Kambale City",
			Phone:           "+243 999 333 444",
			URL:             "https://summit-legal.example.com",
			ImageURL:        "https://placehold.co/300x200/1a2a6c/ffffff?text=Summit+Legal",
			MembershipLevel: models.MembershipLevelSilver,
			Description:     "Business and property law for local companies",
		},
		{
			Name:            "Green Valley Farms",
			Address:         "12 Orchard Lane, Kambale City",
			Phone:           "+243 999 555 666",
			URL:             "https://greenvalley.example.com",
			ImageURL:        "https://placehold.co/300x200/fdbb2d/000000?text=Green+Valley",
			MembershipLevel: models.MembershipLevelSilver,
			Description:     "Organic produce and farm-to-table delivery",
		},
		{
			Name:            "Lakeside Motors",
			Address:         "301 Lakeside Drive, Kambale City",
			Phone:           "+243 999 777 000",
			URL:             "https://lakeside-motors.example.com",
			ImageURL:        "https://placehold.co/300x200/b21f1f/ffffff?text=Lakeside+Motors",
			MembershipLevel: models.MembershipLevelGold,
			Description:     "Vehicle sales and certified repair center",
		},
		{
			Name:            "Bright Minds Academy",
			Address:         "9 School Street, Kambale City",
			Phone:           "+243 999 222 333",
			URL:             "https://brightminds.example.com",
			ImageURL:        "https://placehold.co/300x200/1a2a6c/ffffff?text=Bright+Minds",
			MembershipLevel: models.MembershipLevelStandard,
			Description:     "Private tutoring and after-school programs",
		},
	}
}
