// Package store provides durable, typed access to user preferences,
// bounded history lists, plugin settings, and a persisted metrics
// snapshot, on top of a pluggable key/value substrate.
//
// Every read degrades to a documented default when the stored record
// is absent or corrupted; every returned error is informational (the
// accompanying value is always usable). Writes are best-effort: a
// failed write leaves the stored state as it was.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/devlens-ai/devlens/pkg/models"
)

// KV is the synchronous key/value substrate the store persists
// through. Implementations must treat an absent key as (_, false, nil)
// from Get and as a no-op from Remove.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}

// Keys owned by the store. Clear, Export, Import and Size touch these
// and nothing else, so unrelated records in a shared substrate are
// never disturbed.
const (
	keyPreferences       = "devlens.preferences"
	keyGenerationHistory = "devlens.generation_history"
	keyAnalysisHistory   = "devlens.analysis_history"
	keyPluginSettings    = "devlens.plugin_settings"
	keyMetricsSnapshot   = "devlens.system_metrics"
)

func ownedKeys() []string {
	return []string{
		keyPreferences,
		keyGenerationHistory,
		keyAnalysisHistory,
		keyPluginSettings,
		keyMetricsSnapshot,
	}
}

const (
	// DefaultGenerationLimit bounds the code-generation history list.
	DefaultGenerationLimit = 50
	// DefaultAnalysisLimit bounds the analysis history list.
	DefaultAnalysisLimit = 20
	// metricsSnapshotTTL is how long a persisted metrics snapshot stays
	// readable. Checked on read only.
	metricsSnapshotTTL = 5 * time.Minute
)

// Store is a typed view over a KV substrate.
type Store struct {
	kv            KV
	now           func() time.Time
	generationCap int
	analysisCap   int
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHistoryLimits overrides the history caps. Non-positive values
// keep the defaults.
func WithHistoryLimits(generation, analysis int) Option {
	return func(s *Store) {
		if generation > 0 {
			s.generationCap = generation
		}
		if analysis > 0 {
			s.analysisCap = analysis
		}
	}
}

// New returns a Store persisting through kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:            kv,
		now:           time.Now,
		generationCap: DefaultGenerationLimit,
		analysisCap:   DefaultAnalysisLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readJSON reads and decodes the record at key into out. It reports
// whether a record was present; a non-nil error means the value of out
// is untrusted and the caller should substitute its default.
func (s *Store) readJSON(key string, out any) (bool, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Preferences returns the stored user preferences. On absence or
// corruption it returns the defaults; the error, when non-nil, carries
// the reason the defaults were substituted.
func (s *Store) Preferences() (models.Preferences, error) {
	var p models.Preferences
	ok, err := s.readJSON(keyPreferences, &p)
	if err != nil {
		log.Printf("store: %v, using default preferences", err)
		return models.DefaultPreferences(), err
	}
	if !ok {
		return models.DefaultPreferences(), nil
	}
	return p, nil
}

// SavePreferences replaces the stored preferences wholesale.
func (s *Store) SavePreferences(p models.Preferences) error {
	if err := s.writeJSON(keyPreferences, p); err != nil {
		log.Printf("store: %v", err)
		return err
	}
	return nil
}

// GenerationHistory returns saved code generations, most recent first.
// Absent or corrupted history degrades to an empty list.
func (s *Store) GenerationHistory() ([]models.GenerationRecord, error) {
	var list []models.GenerationRecord
	if _, err := s.readJSON(keyGenerationHistory, &list); err != nil {
		log.Printf("store: %v, returning empty history", err)
		return nil, err
	}
	return list, nil
}

// SaveGeneration assigns the record a fresh id and the current time,
// prepends it, truncates the list to its cap and persists it. The
// returned id is empty when the record was not saved.
func (s *Store) SaveGeneration(rec models.GenerationRecord) (string, error) {
	list, _ := s.GenerationHistory()

	rec.ID = uuid.NewString()
	rec.Timestamp = s.now().UTC()
	list = append([]models.GenerationRecord{rec}, list...)
	if len(list) > s.generationCap {
		list = list[:s.generationCap]
	}

	if err := s.writeJSON(keyGenerationHistory, list); err != nil {
		log.Printf("store: %v", err)
		return "", err
	}
	return rec.ID, nil
}

// DeleteGeneration removes the entry with the given id. An unknown id
// is a no-op.
func (s *Store) DeleteGeneration(id string) error {
	list, err := s.GenerationHistory()
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, rec := range list {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return nil
	}
	return s.writeJSON(keyGenerationHistory, kept)
}

// ToggleFavoriteGeneration flips the favorite flag on the entry with
// the given id. An unknown id is a no-op.
func (s *Store) ToggleFavoriteGeneration(id string) error {
	list, err := s.GenerationHistory()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Favorited = !list[i].Favorited
			return s.writeJSON(keyGenerationHistory, list)
		}
	}
	return nil
}

// AnalysisHistory returns saved analyses, most recent first.
func (s *Store) AnalysisHistory() ([]models.AnalysisRecord, error) {
	var list []models.AnalysisRecord
	if _, err := s.readJSON(keyAnalysisHistory, &list); err != nil {
		log.Printf("store: %v, returning empty history", err)
		return nil, err
	}
	return list, nil
}

// SaveAnalysis is SaveGeneration's counterpart for analysis records,
// with its own smaller cap.
func (s *Store) SaveAnalysis(rec models.AnalysisRecord) (string, error) {
	list, _ := s.AnalysisHistory()

	rec.ID = uuid.NewString()
	rec.Timestamp = s.now().UTC()
	list = append([]models.AnalysisRecord{rec}, list...)
	if len(list) > s.analysisCap {
		list = list[:s.analysisCap]
	}

	if err := s.writeJSON(keyAnalysisHistory, list); err != nil {
		log.Printf("store: %v", err)
		return "", err
	}
	return rec.ID, nil
}

// PluginSettings returns the stored plugin map, empty when nothing is
// stored.
func (s *Store) PluginSettings() (map[string]models.PluginSetting, error) {
	settings := make(map[string]models.PluginSetting)
	if _, err := s.readJSON(keyPluginSettings, &settings); err != nil {
		log.Printf("store: %v, returning empty plugin settings", err)
		return make(map[string]models.PluginSetting), err
	}
	return settings, nil
}

// SavePluginSettings replaces the whole plugin map.
func (s *Store) SavePluginSettings(settings map[string]models.PluginSetting) error {
	if err := s.writeJSON(keyPluginSettings, settings); err != nil {
		log.Printf("store: %v", err)
		return err
	}
	return nil
}

// UpdatePluginSetting overwrites one plugin's record, leaving the rest
// of the map untouched.
func (s *Store) UpdatePluginSetting(id string, enabled bool, config map[string]any) error {
	settings, err := s.PluginSettings()
	if err != nil {
		return err
	}
	settings[id] = models.PluginSetting{Enabled: enabled, Config: config}
	return s.SavePluginSettings(settings)
}

// MetricsSnapshot returns the persisted system-metrics snapshot, or
// nil when none is stored or the stored one is older than its TTL.
// Expiry is checked on read only.
func (s *Store) MetricsSnapshot() (*models.SystemMetrics, error) {
	var m models.SystemMetrics
	ok, err := s.readJSON(keyMetricsSnapshot, &m)
	if err != nil {
		log.Printf("store: %v, dropping metrics snapshot", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if s.now().Sub(m.CapturedAt) > metricsSnapshotTTL {
		return nil, nil
	}
	return &m, nil
}

// SaveMetricsSnapshot persists a snapshot. A zero CapturedAt is filled
// with the current time.
func (s *Store) SaveMetricsSnapshot(m models.SystemMetrics) error {
	if m.CapturedAt.IsZero() {
		m.CapturedAt = s.now().UTC()
	}
	if err := s.writeJSON(keyMetricsSnapshot, m); err != nil {
		log.Printf("store: %v", err)
		return err
	}
	return nil
}

// Clear removes every key the store owns. Idempotent; unrelated keys
// in a shared substrate survive.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range ownedKeys() {
		if err := s.kv.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Export serializes every owned key that is present into one JSON
// document: key name -> the verbatim stored value. Records that are
// not valid JSON are skipped and logged rather than corrupting the
// document.
func (s *Store) Export() (string, error) {
	doc := make(map[string]json.RawMessage)
	for _, key := range ownedKeys() {
		raw, ok, err := s.kv.Get(key)
		if err != nil {
			return "", fmt.Errorf("export %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if !json.Valid([]byte(raw)) {
			log.Printf("store: skipping corrupted record %s in export", key)
			continue
		}
		doc[key] = json.RawMessage(raw)
	}

	// Compact marshaling keeps each embedded value byte-identical to
	// what is stored, so Import(Export()) is an exact round trip.
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return string(data), nil
}

// Import parses a document produced by Export and writes each owned
// key it contains back to the substrate. Keys absent from the document
// are untouched; unknown keys are skipped. A parse failure performs no
// writes and reports ok=false. Writes past the parse are independent:
// a substrate failure mid-way keeps the writes already made and is
// reported through the returned error.
func (s *Store) Import(data string) (bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return false, fmt.Errorf("parse import: %w", err)
	}

	owned := make(map[string]bool)
	for _, key := range ownedKeys() {
		owned[key] = true
	}

	var errs []error
	for _, key := range ownedKeys() {
		raw, present := doc[key]
		if !present {
			continue
		}
		if err := s.kv.Set(key, string(raw)); err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", key, err))
		}
	}
	for key := range doc {
		if !owned[key] {
			log.Printf("store: skipping unknown import key %s", key)
		}
	}
	return true, errors.Join(errs...)
}

// Size returns the approximate storage footprint in bytes: the sum of
// key and serialized-value lengths over owned keys that are present.
func (s *Store) Size() (int, error) {
	total := 0
	for _, key := range ownedKeys() {
		raw, ok, err := s.kv.Get(key)
		if err != nil {
			return total, fmt.Errorf("size %s: %w", key, err)
		}
		if ok {
			total += len(key) + len(raw)
		}
	}
	return total, nil
}
