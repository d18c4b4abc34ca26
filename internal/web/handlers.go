package web

import (
	"database/sql"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/agent"
	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/db"
	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/ops"
)

// maxInvocationBody bounds a POST /invocations body.
const maxInvocationBody = 1 << 20

// Handlers contains HTTP route handlers for the editor.
type Handlers struct {
	editor   *ops.Editor
	bridge   *agent.Bridge
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
	logger   *zap.Logger
}

// InvocationsResponse is the POST /invocations result.
type InvocationsResponse struct {
	Results []agent.Result   `json:"results"`
	Text    string           `json:"text,omitempty"`
	History ops.HistoryState `json:"history"`
}

// HandleFloorplan handles GET /floorplan: the live document as a page, or as
// JSON when the client asks for it.
func (h *Handlers) HandleFloorplan(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Snapshot()
	history := h.editor.History()

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"floorplan": doc,
			"history":   history,
		})
		return
	}

	h.renderer.renderPage(w, "floorplan", FloorplanPageData{
		PageData: PageData{
			Title:   doc.Name,
			Version: h.renderer.version,
			Nav:     "floorplan",
		},
		Floorplan:    doc,
		Counts:       doc.Counts(),
		History:      history,
		RenderedHTML: renderMarkdown(agent.Summarize(doc)),
	})
}

// HandleContext handles GET /floorplan/context: the agent context summary.
func (h *Handlers) HandleContext(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, h.bridge.Context())
}

// HandleCommands handles GET /commands: the agent command surface with schemas.
func (h *Handlers) HandleCommands(w http.ResponseWriter, r *http.Request) {
	commands, err := agent.Commands()
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"commands": commands})
}

// HandleInvocations handles POST /invocations.
//
// A JSON body is one invocation or an array of them; entries without an
// invocationId are never treated as duplicates. Any other body is read as one
// model data stream and its invocation lines are executed as they complete.
// ?session=new starts a fresh dedupe session first.
func (h *Handlers) HandleInvocations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInvocationBody)
	if r.URL.Query().Get("session") == "new" {
		h.bridge.NewSession()
	}

	var (
		results []agent.Result
		text    string
		err     error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		results, err = h.executeJSON(r.Body)
	} else {
		results, text, err = h.executeStream(r.Body)
	}
	if err != nil {
		r.Header.Set("Accept", "application/json")
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, InvocationsResponse{
		Results: results,
		Text:    text,
		History: h.editor.History(),
	})
}

func (h *Handlers) executeJSON(body io.Reader) ([]agent.Result, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	var invs []agent.Invocation
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &invs)
	} else {
		var one agent.Invocation
		err = json.Unmarshal(data, &one)
		invs = []agent.Invocation{one}
	}
	if err != nil {
		return nil, errors.NewInvalidRequest("body must be an invocation or an array of invocations: " + err.Error())
	}
	// Each request is a discrete call; only explicit ids dedupe across requests.
	for i := range invs {
		if invs[i].ID == "" {
			invs[i].ID = uuid.NewString()
		}
	}
	return h.bridge.ExecuteAll(invs), nil
}

// executeStream runs the body as one model stream with its own parser.
func (h *Handlers) executeStream(body io.Reader) ([]agent.Result, string, error) {
	stream := h.bridge.OpenStream()
	results := []agent.Result{}
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			results = append(results, stream.Apply(string(buf[:n]))...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", errors.NewInvalidRequest(err.Error())
		}
	}
	results = append(results, stream.Finish()...)
	return results, stream.Text(), nil
}

// HandleList handles GET /floorplans: saved floorplans, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	offset := parseIntParam(r, "offset", 0)

	items, total, err := db.List(h.db, db.ListOptions{
		Name:   r.URL.Query().Get("name"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"items":  items,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Saved floorplans",
			Version: h.renderer.version,
			Nav:     "saved",
		},
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleSave handles POST /floorplans: save the live document.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	rec, err := db.Save(h.db, h.editor.Snapshot())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.logger.Info("floorplan saved", zap.String("floorplan_id", rec.ID))

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, rec.Summary())
		return
	}
	http.Redirect(w, r, "/floorplans", http.StatusSeeOther)
}

// HandleOpen handles POST /floorplans/{id}/open: make a saved floorplan live.
func (h *Handlers) HandleOpen(w http.ResponseWriter, r *http.Request) {
	doc, err := db.Load(h.db, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.editor.Load(doc)
	h.bridge.NewSession()

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"id": doc.ID, "name": doc.Name})
		return
	}
	http.Redirect(w, r, "/floorplan", http.StatusSeeOther)
}

// HandleDelete handles DELETE /floorplans/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := db.SoftDelete(h.db, id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// parseIntParam reads a non-negative integer query parameter.
func parseIntParam(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
