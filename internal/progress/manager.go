package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultDir = "/tmp/slack-crawl-progress"

// ChannelProgress records where the last crawl of a channel stopped
type ChannelProgress struct {
	ChannelID string    `json:"channel_id"`
	LastTS    string    `json:"last_ts"`
	LastRun   time.Time `json:"last_run"`
	Crawled   int       `json:"crawled"`
}

// Oldest returns LastTS as Unix seconds, or 0 when nothing was crawled yet.
func (p *ChannelProgress) Oldest() float64 {
	if p == nil || p.LastTS == "" {
		return 0
	}
	oldest, err := strconv.ParseFloat(p.LastTS, 64)
	if err != nil {
		return 0
	}
	return oldest
}

// Advance moves LastTS forward to ts. Timestamps compare as strings,
// the same way crawled batches are ordered.
func (p *ChannelProgress) Advance(ts string, crawled int) {
	if ts > p.LastTS {
		p.LastTS = ts
	}
	p.Crawled += crawled
}

// Manager persists channel progress as JSON files
type Manager struct {
	dir string
}

// NewManager creates a progress manager rooted at dir
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir
	}
	return &Manager{dir: dir}
}

func (m *Manager) ensureDir() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}
	return nil
}

func (m *Manager) filePath(channelID string) string {
	return filepath.Join(m.dir, fmt.Sprintf("channel_%s.json", channelID))
}

// Save writes the progress of a channel, stamping LastRun
func (m *Manager) Save(progress *ChannelProgress) error {
	if err := m.ensureDir(); err != nil {
		return err
	}

	progress.LastRun = time.Now()

	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := os.WriteFile(m.filePath(progress.ChannelID), data, 0644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}

	log.Debug().Msgf("Progress saved for channel %s: last ts %s, %d messages crawled",
		progress.ChannelID, progress.LastTS, progress.Crawled)
	return nil
}

// Load reads the progress of a channel. It returns nil, nil when none is stored.
func (m *Manager) Load(channelID string) (*ChannelProgress, error) {
	data, err := os.ReadFile(m.filePath(channelID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var progress ChannelProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	log.Debug().Msgf("Progress loaded for channel %s: last ts %s, last run %s",
		progress.ChannelID, progress.LastTS, progress.LastRun.Format("2006-01-02 15:04:05"))

	return &progress, nil
}

// Delete removes the progress file of a channel
func (m *Manager) Delete(channelID string) error {
	err := os.Remove(m.filePath(channelID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete progress file: %w", err)
	}
	return nil
}
