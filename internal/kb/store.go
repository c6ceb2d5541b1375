// Package kb implements the retrieval side of the agent: embeddings via
// the Gemini API, vector similarity search over PostgreSQL/pgvector, and
// answer synthesis with the response model persona.
package kb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// Store performs embedding generation and vector search. It is safe for
// concurrent use.
type Store struct {
	pool           *pgxpool.Pool
	client         *genai.Client
	embeddingModel string
	topK           int
}

// NewStore builds a Store from an open pool and Gemini client.
func NewStore(pool *pgxpool.Pool, client *genai.Client, cfg model.KnowledgeConfig) *Store {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 2
	}
	return &Store{
		pool:           pool,
		client:         client,
		embeddingModel: cfg.EmbeddingModel,
		topK:           topK,
	}
}

// Embed generates the embedding vector for one text.
func (s *Store) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := s.client.Models.EmbedContent(ctx, s.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("empty embedding response")
	}
	return pgvector.NewVector(resp.Embeddings[0].Values), nil
}

// Search returns the contents of the documents nearest to the query.
func (s *Store) Search(ctx context.Context, query string) ([]string, error) {
	embedding, err := s.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content FROM kb_documents ORDER BY embedding <=> $1 LIMIT $2`,
		embedding, s.topK,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search rows: %w", err)
	}

	logx.Debug().Int("documents", len(docs)).Msg("knowledge base search done")
	return docs, nil
}

// Upsert inserts or replaces one document with its embedding. Used by
// the ingestion tool, not by the serving path.
func (s *Store) Upsert(ctx context.Context, id, content string) error {
	embedding, err := s.Embed(ctx, content)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO kb_documents (id, content, embedding)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
		id, content, embedding,
	)
	if err != nil {
		return fmt.Errorf("upsert document %q: %w", id, err)
	}
	return nil
}
