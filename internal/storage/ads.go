package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chirchiq/estate-bot/internal/model"
)

const adColumns = `id, user_id, type, title, description, price, currency, location, photos, status, created_at`

func scanAd(row rowScanner) (*model.Ad, error) {
	var ad model.Ad
	var typ, photos, status string
	var createdAt int64
	err := row.Scan(&ad.ID, &ad.UserID, &typ, &ad.Title, &ad.Description, &ad.Price,
		&ad.Currency, &ad.Location, &photos, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	ad.Type = model.PropertyType(typ)
	ad.Status = model.AdStatus(status)
	ad.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(photos), &ad.Photos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal photos of ad %d: %w", ad.ID, err)
	}
	return &ad, nil
}

// CreateAd stores a new listing and returns its id.
func (s *SQLiteStore) CreateAd(ctx context.Context, ad *model.Ad) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := ad.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal photos: %w", err)
	}
	status := ad.Status
	if status == "" {
		status = model.AdStatusPending
	}
	createdAt := ad.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ads (user_id, type, title, description, price, currency, location, photos, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ad.UserID, string(ad.Type), ad.Title, ad.Description, ad.Price, ad.Currency, ad.Location,
		string(photosJSON), string(status), createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to create ad: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read ad id: %w", err)
	}
	ad.ID = id
	return id, nil
}

// GetAd returns nil, nil when the ad does not exist.
func (s *SQLiteStore) GetAd(ctx context.Context, id int64) (*model.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, err := scanAd(s.db.QueryRowContext(ctx, "SELECT "+adColumns+" FROM ads WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ad: %w", err)
	}
	return ad, nil
}

// GetUserAds returns all of a user's ads, newest first.
func (s *SQLiteStore) GetUserAds(ctx context.Context, userID int64) ([]model.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+adColumns+" FROM ads WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ads: %w", err)
	}
	defer rows.Close()

	var ads []model.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

// CountActiveListings counts pending and approved ads that have not yet
// reached the end of their lifetime at now.
func (s *SQLiteStore) CountActiveListings(ctx context.Context, userID int64, now time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ads
		WHERE user_id = ? AND status IN (?, ?) AND created_at > ?
	`, userID, string(model.AdStatusPending), string(model.AdStatusApproved),
		now.Add(-model.ListingLifetime).Unix(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active listings: %w", err)
	}
	return count, nil
}

// DeleteAd removes one of the user's ads.
func (s *SQLiteStore) DeleteAd(ctx context.Context, userID, adID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM ads WHERE id = ? AND user_id = ?", adID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}
	return requireRow(res, "ad", adID)
}

// RenewAd restarts the lifetime of one of the user's ads at now.
func (s *SQLiteStore) RenewAd(ctx context.Context, userID, adID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE ads SET created_at = ? WHERE id = ? AND user_id = ?",
		now.Unix(), adID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to renew ad: %w", err)
	}
	return requireRow(res, "ad", adID)
}
