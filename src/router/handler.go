package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type SymbolFinder interface {
	ProcessSymbols(ctx context.Context, symbols []models.StockSymbol, minDaysToExpiration int) *models.BatchResult
	FindOptionSymbols(ctx context.Context, symbol models.StockSymbol, minDaysToExpiration int) (*models.SymbolSelection, error)
}

type OptionSymbolsRequest struct {
	Symbols []string `schema:"symbols"`
	MinDTE  *int     `schema:"min_dte"`
}

type Handler struct {
	finder         SymbolFinder
	latest         *finder.BatchCache
	defaultSymbols []models.StockSymbol
	defaultMinDTE  int
	decoder        *schema.Decoder
}

func NewHandler(f SymbolFinder, latest *finder.BatchCache, defaultSymbols []models.StockSymbol, defaultMinDTE int) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		finder:         f,
		latest:         latest,
		defaultSymbols: defaultSymbols,
		defaultMinDTE:  defaultMinDTE,
		decoder:        decoder,
	}
}

func (h *Handler) decodeRequest(r *http.Request) (*OptionSymbolsRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	req := new(OptionSymbolsRequest)
	if err := h.decoder.Decode(req, r.Form); err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}

	return req, nil
}

func (h *Handler) minDTE(req *OptionSymbolsRequest) int {
	if req.MinDTE != nil {
		return *req.MinDTE
	}

	return h.defaultMinDTE
}

func (h *Handler) handleOptionSymbols(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(r)
	if err != nil {
		setErrorResponse("invalid_request", http.StatusBadRequest, err, w)
		return
	}

	symbols := models.NewStockSymbols(req.Symbols)
	if len(symbols) == 0 {
		symbols = h.defaultSymbols
	}

	minDTE := h.minDTE(req)
	if minDTE < 0 {
		setErrorResponse(string(models.FailureKindInvalidArgument), http.StatusBadRequest, models.InvalidMinDaysToExpirationErr, w)
		return
	}

	batch := h.finder.ProcessSymbols(r.Context(), symbols, minDTE)

	if err := setResponse(batch, w); err != nil {
		log.Errorf("handleOptionSymbols: failed to set response: %v", err)
	}
}

func (h *Handler) handleOptionSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := models.NewStockSymbol(mux.Vars(r)["symbol"])

	req, err := h.decodeRequest(r)
	if err != nil {
		setErrorResponse("invalid_request", http.StatusBadRequest, err, w)
		return
	}

	selection, err := h.finder.FindOptionSymbols(r.Context(), symbol, h.minDTE(req))
	if err != nil {
		kind := models.ClassifyError(err)
		setErrorResponse(string(kind), statusCodeFor(kind), err, w)
		return
	}

	if err := setResponse(selection, w); err != nil {
		log.Errorf("handleOptionSymbol: failed to set response: %v", err)
	}
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	var batch *models.BatchResult
	if h.latest != nil {
		batch = h.latest.Get()
	}

	if batch == nil {
		setErrorResponse("not_ready", http.StatusNotFound, fmt.Errorf("no refresh has completed yet"), w)
		return
	}

	if err := setResponse(batch, w); err != nil {
		log.Errorf("handleLatest: failed to set response: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	setResponse(map[string]string{"status": "ok"}, w)
}

// SetupHandler registers the api routes. The latest route is registered before
// the symbol route so it is not captured as a ticker.
func SetupHandler(router *mux.Router, h *Handler) {
	// handleFunc is a replacement for mux.HandleFunc
	// which enriches the handler's HTTP instrumentation with the pattern as the http.route.
	handleFunc := func(pattern string, handlerFunc func(http.ResponseWriter, *http.Request)) *mux.Route {
		return router.Handle(pattern, otelhttp.WithRouteTag(pattern, http.HandlerFunc(handlerFunc)))
	}

	handleFunc("/health", handleHealth).Methods(http.MethodGet)
	handleFunc("/api/v1/option-symbols", h.handleOptionSymbols).Methods(http.MethodGet)
	handleFunc("/api/v1/option-symbols/latest", h.handleLatest).Methods(http.MethodGet)
	handleFunc("/api/v1/option-symbols/{symbol}", h.handleOptionSymbol).Methods(http.MethodGet)
}

// NewRouter builds the instrumented api router.
func NewRouter(h *Handler) http.Handler {
	router := mux.NewRouter()
	SetupHandler(router, h)

	return otelhttp.NewHandler(router, "options-symbol-finder")
}
