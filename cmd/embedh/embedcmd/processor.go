package embedcmd

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/webbundle/embedh/generator"
)

func newProcessor(log *slog.Logger, stdout io.Writer, writer FileWriterFunc) *processor {
	return &processor{
		log:           log,
		stdout:        stdout,
		stdoutMutex:   &sync.Mutex{},
		writer:        writer,
		hashes:        make(map[string][sha256.Size]byte),
		hashesMutex:   &sync.Mutex{},
		modTimes:      make(map[string]time.Time),
		modTimesMutex: &sync.Mutex{},
	}
}

type processor struct {
	log         *slog.Logger
	stdout      io.Writer
	stdoutMutex *sync.Mutex
	writer      FileWriterFunc

	hashes      map[string][sha256.Size]byte
	hashesMutex *sync.Mutex

	modTimes      map[string]time.Time
	modTimesMutex *sync.Mutex
}

// Process reads one asset's source, generates its header, and writes the
// destination. The write is skipped when the generated bytes match what was
// last written for that destination.
func (p *processor) Process(ctx context.Context, a Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	raw, err := os.ReadFile(a.Source)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", a.Source, err)
	}
	if !utf8.Valid(raw) {
		return fmt.Errorf("failed to read %q: content is not valid UTF-8", a.Source)
	}
	// A NUL would silently truncate the constant for strlen-based consumers.
	if i := bytes.IndexByte(raw, 0); i != -1 {
		return fmt.Errorf("failed to read %q: NUL byte at offset %d", a.Source, i)
	}

	var b bytes.Buffer
	err = generator.Generate(&b,
		generator.WithContent(string(raw)),
		generator.WithHeaderName(filepath.Base(a.Dest)),
		generator.WithGuardName(a.Guard),
		generator.WithConstName(a.Const),
	)
	if err != nil {
		return fmt.Errorf("%s generation error: %w", a.Source, err)
	}

	hash := sha256.Sum256(b.Bytes())
	if p.UpsertHash(a.Dest, hash) {
		if err := p.writer(a.Dest, b.Bytes()); err != nil {
			return fmt.Errorf("failed to write %q: %w", a.Dest, err)
		}
	}

	p.log.Debug("Generated header",
		slog.String("file", a.Dest),
		slog.Duration("in", time.Since(start)),
	)

	p.stdoutMutex.Lock()
	defer p.stdoutMutex.Unlock()
	_, err = fmt.Fprintf(p.stdout, "[embed] %s -> %s (%d bytes)\n", a.Source, a.Dest, len(raw))
	return err
}

func (p *processor) UpsertHash(fileName string, hash [sha256.Size]byte) (updated bool) {
	p.hashesMutex.Lock()
	defer p.hashesMutex.Unlock()
	lastHash := p.hashes[fileName]
	if lastHash == hash {
		return false
	}
	p.hashes[fileName] = hash
	return true
}

func (p *processor) UpsertLastModTime(fileName string) (modTime time.Time, updated bool) {
	fileInfo, err := os.Stat(fileName)
	if err != nil {
		return modTime, false
	}
	p.modTimesMutex.Lock()
	defer p.modTimesMutex.Unlock()
	previousModTime := p.modTimes[fileName]
	currentModTime := fileInfo.ModTime()
	if !currentModTime.After(previousModTime) {
		return currentModTime, false
	}
	p.modTimes[fileName] = currentModTime
	return currentModTime, true
}
