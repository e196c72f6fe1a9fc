//go:build e2e

package e2e

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/covalentlabs/webquill/internal/api/handlers"
	"github.com/covalentlabs/webquill/internal/crawler"
	"github.com/covalentlabs/webquill/internal/server"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/covalentlabs/webquill/internal/textproc"
	"github.com/covalentlabs/webquill/internal/vectorstore"
)

const embedderDimensions = 8

// hashEmbedder derives deterministic embeddings from text content, so
// the full pipeline can run without the real embedding API. Identical
// texts always embed identically, which is the property the pipeline
// relies on.
type hashEmbedder struct{}

func (e *hashEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, embedderDimensions)
	for i := range vec {
		vec[i] = float32(sum[i]) / 255
	}
	return vec, nil
}

func (e *hashEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *hashEmbedder) Model() string {
	return "hash-embedder-v1"
}

func (e *hashEmbedder) Dimensions() int {
	return embedderDimensions
}

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	Website   *httptest.Server
	APIServer *httptest.Server
	Store     *vectorstore.SQLiteStore
}

// fakeWebsite serves a small support site with enough text per page to
// survive the minimum-length filter.
func fakeWebsite(t *testing.T) *httptest.Server {
	t.Helper()

	page := func(title, body, links string) string {
		return fmt.Sprintf(`<html><head><title>%s</title></head><body><p>%s</p>%s</body></html>`, title, body, links)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page("Support Portal",
			"Welcome to the Acme support portal where you can find answers about billing invoices refunds and account management for every plan we offer",
			`<a href="/billing">Billing</a><a href="/passwords">Passwords</a>`))
	})
	mux.HandleFunc("/billing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("Billing",
			"Invoices are issued on the first of every month and payment is collected automatically from the card on file within three business days",
			`<a href="/">Home</a>`))
	})
	mux.HandleFunc("/passwords", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("Passwords",
			"To reset your password open the account settings page choose security and follow the reset link sent to your registered email address",
			`<a href="/">Home</a>`))
	})

	return httptest.NewServer(mux)
}

// SetupE2EEnv wires the real pipeline and router against a fake website,
// a deterministic embedder, and an embedded vector store.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	t.Helper()

	website := fakeWebsite(t)

	store, err := vectorstore.NewSQLiteStore(t.TempDir(), "rag_documents")
	if err != nil {
		t.Fatalf("failed to open vector store: %v", err)
	}

	embedder := &hashEmbedder{}
	pipeline := service.NewPipelineService(crawler.New(crawler.Options{}), embedder, store, textproc.DefaultChunkConfig())
	querySvc := service.NewQueryService(embedder, store)

	router := server.NewRouter(server.RouterConfig{
		QueryHandler: handlers.NewQueryHandler(querySvc),
		IndexHandler: handlers.NewIndexHandler(pipeline, querySvc, handlers.IndexDefaults{
			WebsiteURL: website.URL,
			MaxPages:   10,
		}),
	})
	apiServer := httptest.NewServer(router)

	t.Cleanup(func() {
		apiServer.Close()
		website.Close()
		store.Close()
	})

	return &E2ETestEnv{
		Website:   website,
		APIServer: apiServer,
		Store:     store,
	}
}
