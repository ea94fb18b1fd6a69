// Package query implements the retrieval-and-context-assembly pipeline:
// keyword ranking over stored chunks, bounded context assembly, and the
// single generation call that answers a question.
package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"omniquery/internal/core"
)

// NoInformationMessage is returned when retrieval finds nothing relevant.
// This is a normal outcome, not a failure.
const NoInformationMessage = "I couldn't find any relevant information in the processed files. " +
	"Please make sure you have uploaded and processed some files first."

const promptTemplate = `You are a helpful assistant that answers questions based on the provided context from various documents.

Context from documents:
%s

User Question: %s

Please provide a clear, accurate answer based on the context above. If the information is not available in the context, say so. If you need to reference specific documents, mention the document names.

Answer:`

// generateTimeout bounds the backend call; the generation API itself offers
// no deadline.
const generateTimeout = 60 * time.Second

// Engine answers natural-language questions against the chunk store. Each
// Answer call is independent and stateless apart from appending to the
// query log.
type Engine struct {
	store     core.Store
	generator core.Generator
	limit     int
}

// NewEngine builds the pipeline. limit bounds how many ranked chunks feed
// the context; non-positive values fall back to 10.
func NewEngine(store core.Store, generator core.Generator, limit int) *Engine {
	if limit <= 0 {
		limit = 10
	}
	return &Engine{store: store, generator: generator, limit: limit}
}

// Answer retrieves relevant chunks, assembles a context, and asks the
// generation backend. Backend failures never surface as errors: they come
// back as classified user-facing messages. The returned error is non-nil
// only when the chunk listing itself fails.
func (e *Engine) Answer(ctx context.Context, userQuery string) (string, error) {
	chunks, err := e.store.ListAllChunks(ctx, "")
	if err != nil {
		return "", fmt.Errorf("list chunks: %w", err)
	}

	relevant := Rank(userQuery, chunks, e.limit)
	if len(relevant) == 0 {
		e.logQuery(ctx, userQuery, NoInformationMessage)
		return NoInformationMessage, nil
	}

	contextText := AssembleContext(relevant)
	prompt := fmt.Sprintf(promptTemplate, contextText, userQuery)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	answer := ""
	resp, err := e.generator.Generate(genCtx, prompt)
	if err != nil {
		answer = classifyBackendError(err)
	} else {
		answer = extractAnswer(resp)
	}

	e.logQuery(ctx, userQuery, answer)
	return answer, nil
}

// logQuery appends to the query history; the pipeline owns this side
// effect, and failure to record never affects the answer.
func (e *Engine) logQuery(ctx context.Context, queryText, responseText string) {
	if err := e.store.SaveQuery(ctx, queryText, responseText); err != nil {
		log.Printf("WARN: query log append failed: %v", err)
	}
}

// extractAnswer normalizes the backend response shape: direct text field
// first, then the first candidate's parts, then the stringified raw value.
// A shape mismatch is never an error.
func extractAnswer(resp *core.GenerateResponse) string {
	if resp == nil {
		return ""
	}
	if resp.Text != "" {
		return resp.Text
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Parts) > 0 {
		return strings.Join(resp.Candidates[0].Parts, "")
	}
	return fmt.Sprintf("%v", resp.Raw)
}

// classifyBackendError converts a generation failure into a user-facing
// message: model/endpoint unavailable, auth/permission, or generic API
// error. Classification is advisory text only.
func classifyBackendError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)

	code := 0
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code = gerr.Code
	}

	switch {
	case code == 404 || strings.Contains(msg, "404") || strings.Contains(lower, "not found"):
		return fmt.Sprintf("Model error: The model is not available. Please check your API key and model configuration. Error: %s", msg)
	case code == 403 || strings.Contains(msg, "403") || strings.Contains(lower, "permission"):
		return fmt.Sprintf("API key error: Please check your GEMINI_API_KEY in the .env file. Error: %s", msg)
	default:
		return fmt.Sprintf("API error: %s", msg)
	}
}
