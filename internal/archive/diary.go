package archive

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
)

// DiaryItem is a stored diary entry together with its identifier.
type DiaryItem struct {
	EntryID string `json:"entry_id"`
	models.DiaryEntry
}

// AddDiaryEntry appends a note to a claim's diary. The claim must exist.
// A missing timestamp defaults to the current UTC time. Diary writes do not
// touch the entity views.
func (s *Service) AddDiaryEntry(_ context.Context, account, entityID, contractID, claimID string, payload models.DiaryEntry) (string, error) {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return "", err
	}
	if !s.fs.Exists(ident.ClaimFile(acc, ent, con, cl)) {
		return "", fmt.Errorf("%w: claim %q", apperr.ErrNotFound, cl)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now().UTC()
	}
	id := ident.NewID()
	if err := s.fs.WriteJSON(ident.DiaryFile(acc, ent, con, cl, id), payload); err != nil {
		return "", err
	}
	return id, nil
}

// ListDiary returns every diary entry of a claim, oldest first. Entries that
// fail to parse are skipped.
func (s *Service) ListDiary(_ context.Context, account, entityID, contractID, claimID string) ([]DiaryItem, error) {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return nil, err
	}
	if !s.fs.Exists(ident.ClaimFile(acc, ent, con, cl)) {
		return nil, fmt.Errorf("%w: claim %q", apperr.ErrNotFound, cl)
	}
	entries, err := s.fs.ReadDir(ident.DiaryDir(acc, ent, con, cl))
	if err != nil {
		return nil, err
	}
	items := make([]DiaryItem, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) < 6 || name[len(name)-5:] != ".json" {
			continue
		}
		id := name[:len(name)-5]
		var d models.DiaryEntry
		if err := s.fs.ReadJSON(ident.DiaryFile(acc, ent, con, cl, id), &d); err != nil {
			continue
		}
		items = append(items, DiaryItem{EntryID: id, DiaryEntry: d})
	}
	sortDiary(items)
	return items, nil
}

// GetDiaryEntry reads a single diary entry.
func (s *Service) GetDiaryEntry(_ context.Context, account, entityID, contractID, claimID, entryID string) (DiaryItem, error) {
	acc, ent, con, cl, eid, err := s.diaryIDs(account, entityID, contractID, claimID, entryID)
	if err != nil {
		return DiaryItem{}, err
	}
	var d models.DiaryEntry
	if err := s.fs.ReadJSON(ident.DiaryFile(acc, ent, con, cl, eid), &d); err != nil {
		return DiaryItem{}, err
	}
	return DiaryItem{EntryID: eid, DiaryEntry: d}, nil
}

// UpdateDiaryEntry fully replaces an existing diary entry.
func (s *Service) UpdateDiaryEntry(_ context.Context, account, entityID, contractID, claimID, entryID string, payload models.DiaryEntry) (DiaryItem, error) {
	acc, ent, con, cl, eid, err := s.diaryIDs(account, entityID, contractID, claimID, entryID)
	if err != nil {
		return DiaryItem{}, err
	}
	f := ident.DiaryFile(acc, ent, con, cl, eid)
	if !s.fs.Exists(f) {
		return DiaryItem{}, fmt.Errorf("%w: diary entry %q", apperr.ErrNotFound, eid)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now().UTC()
	}
	if err := s.fs.WriteJSON(f, payload); err != nil {
		return DiaryItem{}, err
	}
	return DiaryItem{EntryID: eid, DiaryEntry: payload}, nil
}

// DeleteDiaryEntry removes a diary entry.
func (s *Service) DeleteDiaryEntry(_ context.Context, account, entityID, contractID, claimID, entryID string) error {
	acc, ent, con, cl, eid, err := s.diaryIDs(account, entityID, contractID, claimID, entryID)
	if err != nil {
		return err
	}
	return s.fs.Remove(ident.DiaryFile(acc, ent, con, cl, eid))
}

func (s *Service) diaryIDs(account, entityID, contractID, claimID, entryID string) (string, string, string, string, string, error) {
	acc, ent, con, cl, err := s.claimIDs(account, entityID, contractID, claimID)
	if err != nil {
		return "", "", "", "", "", err
	}
	eid, err := ident.Sanitize(entryID, "entry_id")
	if err != nil {
		return "", "", "", "", "", err
	}
	return acc, ent, con, cl, eid, nil
}

// sortDiary orders entries by timestamp, then by id for a stable tie-break.
func sortDiary(items []DiaryItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.Before(items[j].Timestamp)
		}
		return items[i].EntryID < items[j].EntryID
	})
}
