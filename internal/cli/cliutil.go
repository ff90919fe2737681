// Package cli contains the cobra commands of the strat binary. Commands
// are thin: they parse flags, call the pipeline service through wire, and
// render the result.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/example/strat/internal/apperr"
	"github.com/example/strat/internal/ctxutil"
	"github.com/example/strat/internal/ports/primary"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// cliContext returns the context for service calls, carrying the invoking
// user as audit actor.
func cliContext() context.Context {
	actor := "cli"
	if user := os.Getenv("USER"); user != "" {
		actor = "cli:" + user
	}
	return ctxutil.WithActorID(context.Background(), actor)
}

// renderStageResult prints a stage run: drafts, review prompts, and soft
// validation findings.
func renderStageResult(result *primary.StageResult) {
	fmt.Printf("%s Stage %s produced %d draft(s)\n", okMark, result.Stage, len(result.Drafts))
	for _, draft := range result.Drafts {
		fmt.Printf("  %s (v%d, %s)\n", draft.ArtifactType, draft.Version, draft.Status)
	}
	if generator := result.HandlerMetadata["generator"]; generator != "" {
		fmt.Printf("  generator: %s (%s)\n", generator, result.HandlerMetadata["mode"])
	}
	for _, finding := range result.ValidationErrors {
		fmt.Printf("%s %s\n", warnMark, finding)
	}
	for _, prompt := range result.Prompts {
		fmt.Printf("  %s\n", prompt)
	}
}

// renderError maps the error taxonomy to operator guidance.
func renderError(err error) error {
	var pre *apperr.PreconditionError
	if errors.As(err, &pre) {
		return fmt.Errorf("stage %s is blocked: approve %s first",
			pre.Stage, strings.Join(pre.Missing, ", "))
	}
	if errors.Is(err, apperr.ErrConcurrency) {
		return fmt.Errorf("%w (another run modified this project; re-run the command)", err)
	}
	return err
}

// parseKeyValues turns repeated key=value flags into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed input %q, want key=value", pair)
		}
		values[key] = value
	}
	return values, nil
}

// parseEdits turns repeated field=value flags into a JSON edit map. Values
// that are not valid JSON are treated as strings.
func parseEdits(pairs []string) (map[string]json.RawMessage, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	edits := make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		field, value, found := strings.Cut(pair, "=")
		if !found || field == "" {
			return nil, fmt.Errorf("malformed edit %q, want field=value", pair)
		}
		if json.Valid([]byte(value)) {
			edits[field] = json.RawMessage(value)
			continue
		}
		quoted, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("malformed edit %q: %w", pair, err)
		}
		edits[field] = quoted
	}
	return edits, nil
}
