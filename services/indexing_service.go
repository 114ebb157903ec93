package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

// PageExtractor returns the text of a file page by page.
type PageExtractor func(path string) ([]PageText, error)

// FileIndexingService handles scanning, chunking, and embedding files.
type FileIndexingService struct {
	store    VectorStore
	embedder Embedder
	splitter textsplitter.TextSplitter
	extract  PageExtractor
	logger   *zap.Logger
}

// NewFileIndexingService creates a new indexing service.
func NewFileIndexingService(store VectorStore, embedder Embedder, chunkSize, chunkOverlap int, logger *zap.Logger) *FileIndexingService {
	return &FileIndexingService{
		store:    store,
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		extract: ExtractPages,
		logger:  logger,
	}
}

// ScanResult summarises one directory sync.
type ScanResult struct {
	Indexed   int
	Unchanged int
	Removed   int
	Failed    int
}

// WatchDirectory starts a long-running process to watch for file changes in real-time.
// It blocks until ctx is cancelled.
func (s *FileIndexingService) WatchDirectory(ctx context.Context, dirPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dirPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dirPath, err)
	}
	s.logger.Info("watcher: watching directory", zap.String("dir", dirPath))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", zap.Error(err))
		case <-ctx.Done():
			s.logger.Info("watcher: context cancelled, shutting down")
			return nil
		}
	}
}

func (s *FileIndexingService) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isSupportedFile(event.Name) {
		return
	}
	log := s.logger.With(zap.String("file", event.Name), zap.String("op", event.Op.String()))

	// Editors often save through create+rename, so Create and Write are handled alike.
	switch {
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		hash, err := calculateFileHash(event.Name)
		if err != nil {
			log.Warn("watcher: could not hash file", zap.Error(err))
			return
		}
		if err := s.reindexFile(ctx, event.Name, hash); err != nil {
			log.Error("watcher: failed to re-index file", zap.Error(err))
			return
		}
		log.Info("watcher: file re-indexed")
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if err := s.store.DeleteBySource(ctx, event.Name); err != nil {
			log.Error("watcher: failed to remove file from index", zap.Error(err))
			return
		}
		log.Info("watcher: file removed from index")
	}
}

// ScanAndIndexDirectory syncs the directory with the vector store: new and
// changed files are (re)indexed, files gone from disk are removed.
func (s *FileIndexingService) ScanAndIndexDirectory(ctx context.Context, dirPath string) (ScanResult, error) {
	var res ScanResult
	s.logger.Info("indexer: starting directory scan", zap.String("dir", dirPath))

	indexed, err := s.store.Documents(ctx)
	if err != nil {
		return res, fmt.Errorf("could not get current index state: %w", err)
	}
	s.logger.Info("indexer: files currently in the index", zap.Int("count", len(indexed)))

	localFiles := make(map[string]bool)
	err = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedFile(path) {
			return nil
		}
		localFiles[path] = true

		hash, err := calculateFileHash(path)
		if err != nil {
			s.logger.Warn("indexer: could not hash file", zap.String("file", path), zap.Error(err))
			res.Failed++
			return nil
		}
		if doc, ok := indexed[path]; ok && doc.Hash == hash {
			res.Unchanged++
			return nil
		}

		if err := s.reindexFile(ctx, path, hash); err != nil {
			s.logger.Error("indexer: failed to index file", zap.String("file", path), zap.Error(err))
			res.Failed++
			return nil
		}
		res.Indexed++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("error walking %s: %w", dirPath, err)
	}

	for path := range indexed {
		if localFiles[path] {
			continue
		}
		if err := s.store.DeleteBySource(ctx, path); err != nil {
			s.logger.Error("indexer: failed to remove deleted file", zap.String("file", path), zap.Error(err))
			res.Failed++
			continue
		}
		res.Removed++
	}

	s.logger.Info("indexer: directory scan finished",
		zap.Int("indexed", res.Indexed),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("removed", res.Removed),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// reindexFile drops any previous chunks of path and stores fresh ones.
func (s *FileIndexingService) reindexFile(ctx context.Context, path, hash string) error {
	chunks, err := s.buildChunks(ctx, path, hash)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBySource(ctx, path); err != nil {
		return err
	}
	return s.store.Add(ctx, chunks)
}

func (s *FileIndexingService) buildChunks(ctx context.Context, path, hash string) ([]Chunk, error) {
	pages, err := s.extract(path)
	if err != nil {
		return nil, fmt.Errorf("could not extract text from %s: %w", path, err)
	}

	var chunks []Chunk
	for _, page := range pages {
		texts, err := s.splitter.SplitText(page.Text)
		if err != nil {
			return nil, fmt.Errorf("could not split page %d of %s: %w", page.Number, path, err)
		}
		for _, text := range texts {
			embedding, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("could not embed chunk %d of %s: %w", len(chunks), path, err)
			}
			chunks = append(chunks, Chunk{
				Text:      text,
				Source:    path,
				Page:      page.Number,
				Hash:      hash,
				Index:     len(chunks),
				Embedding: embedding,
			})
		}
	}
	s.logger.Info("indexer: split file", zap.String("file", path), zap.Int("pages", len(pages)), zap.Int("chunks", len(chunks)))
	return chunks, nil
}

func calculateFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
