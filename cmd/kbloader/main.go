// Command kbloader ingests the CCI knowledge base and contact directory
// from Excel workbooks into Postgres.
//
// Knowledge documents (default mode) are read as "id | content" rows,
// embedded, and upserted into kb_documents. With -contacts the workbook
// is read as the WhatsApp directory export (celular | empresa | nombre |
// apellido | cargo | sector | descripcion) and upserted into
// whatsapp_numbers.
package main

import (
	"context"
	"flag"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/xuri/excelize/v2"
	"google.golang.org/genai"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/kb"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

type loaderConfig struct {
	APIKey    string `envconfig:"GEMINI_API_KEY"`
	Knowledge model.KnowledgeConfig
}

func main() {
	var (
		file         = flag.String("file", "", "path to the Excel workbook")
		sheet        = flag.String("sheet", "", "sheet name (default: first sheet)")
		loadContacts = flag.Bool("contacts", false, "load the WhatsApp contact directory instead of knowledge documents")
	)
	flag.Parse()

	logx.Init()

	if *file == "" {
		logx.Fatal().Msg("-file is required")
	}

	if err := godotenv.Load(".env"); err != nil {
		logx.Debug().Msg("No .env file found, using environment variables")
	}

	var cfg loaderConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}
	if cfg.Knowledge.DatabaseURL == "" {
		logx.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := kb.NewPool(ctx, cfg.Knowledge.DatabaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer pool.Close()

	rows, err := readRows(*file, *sheet)
	if err != nil {
		logx.Fatal().Err(err).Str("file", *file).Msg("Failed to read workbook")
	}

	if *loadContacts {
		n, err := loadDirectory(ctx, pool, rows)
		if err != nil {
			logx.Fatal().Err(err).Msg("Contact directory load failed")
		}
		logx.Info().Int("contacts", n).Msg("Contact directory loaded")
		return
	}

	if cfg.APIKey == "" {
		logx.Fatal().Msg("GEMINI_API_KEY is required to embed knowledge documents")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	store := kb.NewStore(pool, client, cfg.Knowledge)
	n, err := loadDocuments(ctx, store, rows)
	if err != nil {
		logx.Fatal().Err(err).Msg("Knowledge document load failed")
	}
	logx.Info().Int("documents", n).Msg("Knowledge base loaded")
}

func readRows(file, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	return f.GetRows(sheet)
}

// loadDocuments embeds and upserts "id | content" rows, skipping the
// header and blanks.
func loadDocuments(ctx context.Context, store *kb.Store, rows [][]string) (int, error) {
	loaded := 0
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(row[0])
		content := strings.TrimSpace(row[1])
		if id == "" || content == "" {
			continue
		}
		if err := store.Upsert(ctx, id, content); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func loadDirectory(ctx context.Context, pool execer, rows [][]string) (int, error) {
	const upsert = `
		INSERT INTO whatsapp_numbers (celular, empresa, nombre, apellido, cargo, sector, descripcion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (celular) DO UPDATE SET
			empresa = EXCLUDED.empresa,
			nombre = EXCLUDED.nombre,
			apellido = EXCLUDED.apellido,
			cargo = EXCLUDED.cargo,
			sector = EXCLUDED.sector,
			descripcion = EXCLUDED.descripcion`

	loaded := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		celular := cell(row, 0)
		if celular == "" {
			continue
		}
		_, err := pool.Exec(ctx, upsert,
			celular, cell(row, 1), cell(row, 2), cell(row, 3), cell(row, 4), cell(row, 5), cell(row, 6))
		if err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
