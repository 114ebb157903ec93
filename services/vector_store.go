package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github/itish2003/docquery/models"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metadata keys stored with every chunk.
const (
	metaSource   = "source"
	metaPage     = "page"
	metaFileHash = "file_hash"
	metaChunkNum = "chunk_num"
)

// Chunk is an embedded piece of a source file ready to be stored.
type Chunk struct {
	Text      string
	Source    string
	Page      int
	Hash      string
	Index     int
	Embedding []float32
}

// VectorStore persists chunks and finds the nearest ones to an embedding.
type VectorStore interface {
	Add(ctx context.Context, chunks []Chunk) error
	Search(ctx context.Context, embedding []float32, k int) ([]models.SourceDocument, error)
	DeleteBySource(ctx context.Context, source string) error
	Documents(ctx context.Context) (map[string]models.IndexedDocument, error)
}

// ChromaStore is a VectorStore backed by a Chroma collection.
type ChromaStore struct {
	collection chromago.Collection
	logger     *zap.Logger
}

// NewChromaStore wraps collection.
func NewChromaStore(collection chromago.Collection, logger *zap.Logger) *ChromaStore {
	return &ChromaStore{collection: collection, logger: logger}
}

// GetOrCreateCollection opens the named collection, creating it if needed.
func GetOrCreateCollection(ctx context.Context, client chromago.Client, name string) (chromago.Collection, error) {
	collection, err := client.GetOrCreateCollection(
		ctx,
		name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "docquery document chunks"),
				chromago.NewStringAttribute("created_by", "docquery"),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", name, err)
	}
	return collection, nil
}

func (s *ChromaStore) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ids := make([]chromago.DocumentID, 0, len(chunks))
	texts := make([]string, 0, len(chunks))
	embs := make([]embeddings.Embedding, 0, len(chunks))
	metas := make([]chromago.DocumentMetadata, 0, len(chunks))

	for _, c := range chunks {
		ids = append(ids, chromago.DocumentID(fmt.Sprintf("%s-chunk%d", uuid.New().String(), c.Index)))
		texts = append(texts, c.Text)
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(c.Embedding))
		metas = append(metas, chunkMetadata(c))
	}

	err := s.collection.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embs...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add %d chunks to chromadb: %w", len(chunks), err)
	}
	return nil
}

func chunkMetadata(c Chunk) chromago.DocumentMetadata {
	source := chromago.NewStringAttribute(metaSource, c.Source)
	hash := chromago.NewStringAttribute(metaFileHash, c.Hash)
	num := chromago.NewIntAttribute(metaChunkNum, int64(c.Index))
	if c.Page == NoPage {
		return chromago.NewDocumentMetadata(source, hash, num)
	}
	return chromago.NewDocumentMetadata(source, hash, num, chromago.NewIntAttribute(metaPage, int64(c.Page)))
}

func (s *ChromaStore) Search(ctx context.Context, embedding []float32, k int) ([]models.SourceDocument, error) {
	results, err := s.collection.Query(
		ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var documents []models.SourceDocument
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()

	if len(documentGroups) == 0 {
		return documents, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		var meta map[string]interface{}
		if len(metadataGroups) > 0 && len(metadataGroups[0]) > i {
			meta = s.metadataToMap(metadataGroups[0][i])
		}
		documents = append(documents, models.SourceDocument{
			Text:     doc.ContentString(),
			Metadata: meta,
		})
	}
	return documents, nil
}

func (s *ChromaStore) DeleteBySource(ctx context.Context, source string) error {
	where := chromago.EqString(metaSource, source)
	if err := s.collection.Delete(ctx, chromago.WithWhereDelete(where)); err != nil {
		return fmt.Errorf("failed to delete chunks of %s: %w", source, err)
	}
	return nil
}

func (s *ChromaStore) Documents(ctx context.Context) (map[string]models.IndexedDocument, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	docs := make(map[string]models.IndexedDocument)
	for _, meta := range results.GetMetadatas() {
		m := s.metadataToMap(meta)
		source, ok := m[metaSource].(string)
		if !ok {
			continue
		}
		d := docs[source]
		d.Source = source
		if hash, ok := m[metaFileHash].(string); ok && d.Hash == "" {
			d.Hash = hash
		}
		d.Chunks++
		docs[source] = d
	}
	return docs, nil
}

// metadataToMap converts chunk metadata to a plain map. DocumentMetadata has
// no accessor for all values, so it goes through its JSON form.
func (s *ChromaStore) metadataToMap(meta chromago.DocumentMetadata) map[string]interface{} {
	if meta == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		s.logger.Warn("could not marshal chunk metadata", zap.Error(err))
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		s.logger.Warn("could not unmarshal chunk metadata", zap.Error(err))
		return map[string]interface{}{}
	}
	return out
}
