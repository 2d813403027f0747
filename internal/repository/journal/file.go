package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// Repository defines persistence operations for alert events.
type Repository interface {
	Append(ctx context.Context, event alert.Event) error
	List(ctx context.Context) ([]alert.Event, error)
}

// FileRepository stores events as protobuf JSON, one object per line.
type FileRepository struct {
	// path is the filesystem location of the journal.
	path string
	// mu protects concurrent access to the journal file.
	mu sync.Mutex
}

// maxLineSize bounds a single journal line.
const maxLineSize = 1 << 20

// NewFileRepository creates a repository that appends to the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Append writes the event at the end of the journal.
func (r *FileRepository) Append(_ context.Context, event alert.Event) error {
	data, err := protojson.Marshal(wire.FromEvent(&event))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err = file.Write(append(data, '\n')); err != nil {
		_ = file.Close()

		return fmt.Errorf("write journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// List reads every event from the journal, oldest first.
// A missing journal yields an empty list.
func (r *FileRepository) List(_ context.Context) ([]alert.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open journal: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var (
		events  []alert.Event
		scanner = bufio.NewScanner(file)
		line    int
	)

	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		line++

		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var message structpb.Struct
		if err = protojson.Unmarshal(data, &message); err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", line, err)
		}

		event, err := wire.ToEvent(&message)
		if err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", line, err)
		}

		events = append(events, *event)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	return events, nil
}
