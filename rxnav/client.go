package rxnav

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Aki894/mcp-RxNav/metrics"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://rxnav.nlm.nih.gov/REST"

// maxATCIngredients bounds the ingredient fan-out when a product has no
// direct ATC membership.
const maxATCIngredients = 3

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
}

// Client talks to the RxNav REST API. It implements Resolver.
type Client struct {
	http  *resty.Client
	cache Cache
}

var _ Resolver = (*Client)(nil)

// NewClient builds a client with retry on transport errors, 429 and 5xx.
// cache may be nil.
func NewClient(cfg Config, cache Cache) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "mcp-rxnav"
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait)

	client.AddRetryCondition(retryCondition)

	return &Client{http: client, cache: cache}
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) SearchDrugs(ctx context.Context, name string, limit int) ([]Concept, error) {
	var resp drugsResponse
	if err := c.getJSON(ctx, "/drugs.json", url.Values{"name": {strings.TrimSpace(name)}}, &resp); err != nil {
		return nil, err
	}
	return capConcepts(flatten(resp.DrugGroup.ConceptGroup), limit), nil
}

func (c *Client) GenericNames(ctx context.Context, name string, limit int) ([]Concept, error) {
	return c.related(ctx, name, TTYIngredient, limit)
}

func (c *Client) BrandNames(ctx context.Context, name string, limit int) ([]Concept, error) {
	return c.related(ctx, name, TTYBrandName, limit)
}

func (c *Client) Ingredients(ctx context.Context, name string, limit int) ([]Concept, error) {
	return c.related(ctx, name, TTYIngredientsFull, limit)
}

// ATCClasses returns the ATC classes of a drug. RxClass links ATC to
// ingredients, so products without a direct membership are classified
// through their first few ingredients.
func (c *Client) ATCClasses(ctx context.Context, name string, limit int) ([]DrugClass, error) {
	rxcui, err := c.ResolveRxCUI(ctx, name)
	if err != nil {
		return nil, err
	}

	classes, err := c.classesByRxCUI(ctx, rxcui)
	if err != nil {
		return nil, err
	}
	if len(classes) > 0 {
		return capClasses(classes, limit), nil
	}

	ingredients, err := c.relatedByRxCUI(ctx, rxcui, TTYIngredient)
	if err != nil {
		return nil, err
	}
	for i, in := range ingredients {
		if i == maxATCIngredients {
			break
		}
		more, err := c.classesByRxCUI(ctx, in.RxCUI)
		if err != nil {
			logger.Error("ATC lookup for ingredient failed", zap.String("rxcui", in.RxCUI), zap.Error(err))
			continue
		}
		classes = append(classes, more...)
	}
	return capClasses(classes, limit), nil
}

// ResolveRxCUI maps a drug name to an RxCUI. Numeric input is taken as an
// RxCUI. An exact/normalized match is preferred over approximate matching.
func (c *Client) ResolveRxCUI(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrDrugNotFound)
	}
	if _, err := strconv.ParseUint(name, 10, 64); err == nil {
		return name, nil
	}

	var ids idGroupResponse
	if err := c.getJSON(ctx, "/rxcui.json", url.Values{"name": {name}, "search": {"2"}}, &ids); err != nil {
		return "", err
	}
	if len(ids.IDGroup.RxNormID) > 0 {
		return ids.IDGroup.RxNormID[0], nil
	}

	var approx approximateResponse
	if err := c.getJSON(ctx, "/approximateTerm.json", url.Values{"term": {name}, "maxEntries": {"1"}}, &approx); err != nil {
		return "", err
	}
	for _, cand := range approx.ApproximateGroup.Candidate {
		if cand.RxCUI != "" {
			logger.Info("Resolved drug by approximate match", zap.String("name", name), zap.String("rxcui", cand.RxCUI))
			return cand.RxCUI, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDrugNotFound, name)
}

func (c *Client) related(ctx context.Context, name, tty string, limit int) ([]Concept, error) {
	rxcui, err := c.ResolveRxCUI(ctx, name)
	if err != nil {
		return nil, err
	}
	concepts, err := c.relatedByRxCUI(ctx, rxcui, tty)
	if err != nil {
		return nil, err
	}
	return capConcepts(concepts, limit), nil
}

func (c *Client) relatedByRxCUI(ctx context.Context, rxcui, tty string) ([]Concept, error) {
	var resp relatedResponse
	path := "/rxcui/" + url.PathEscape(rxcui) + "/related.json"
	if err := c.getJSON(ctx, path, url.Values{"tty": {tty}}, &resp); err != nil {
		return nil, err
	}
	return flatten(resp.RelatedGroup.ConceptGroup), nil
}

func (c *Client) classesByRxCUI(ctx context.Context, rxcui string) ([]DrugClass, error) {
	var resp classByRxcuiResponse
	params := url.Values{"rxcui": {rxcui}, "relaSource": {"ATC"}}
	if err := c.getJSON(ctx, "/rxclass/class/byRxcui.json", params, &resp); err != nil {
		return nil, err
	}

	var out []DrugClass
	for _, info := range resp.RxclassDrugInfoList.RxclassDrugInfo {
		item := info.RxclassMinConceptItem
		out = append(out, DrugClass{
			ClassID:   item.ClassID,
			ClassName: item.ClassName,
			ClassType: item.ClassType,
			DrugName:  info.MinConcept.Name,
			DrugRxCUI: info.MinConcept.RxCUI,
		})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	key := path + "?" + params.Encode()
	endpoint := endpointLabel(path)
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			return json.Unmarshal(body, out)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.Error).Inc()
		return fmt.Errorf("rxnav: GET %s: %w", path, err)
	}
	if resp.IsError() {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.Error).Inc()
		return fmt.Errorf("rxnav: GET %s: unexpected status %d", path, resp.StatusCode())
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.Error).Inc()
		return fmt.Errorf("rxnav: decode %s: %w", path, err)
	}
	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OK).Inc()

	if c.cache != nil {
		c.cache.Set(ctx, key, body)
	}
	return nil
}

func endpointLabel(path string) string {
	if strings.HasPrefix(path, "/rxcui/") {
		return "/rxcui/{rxcui}/related.json"
	}
	return path
}

func capConcepts(concepts []Concept, limit int) []Concept {
	seen := ds.NewSet[string]()
	out := make([]Concept, 0, min(len(concepts), max(limit, 0)))
	for _, c := range concepts {
		if limit > 0 && len(out) == limit {
			break
		}
		key := c.RxCUI + "|" + c.Name
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		out = append(out, c)
	}
	return out
}

func capClasses(classes []DrugClass, limit int) []DrugClass {
	seen := ds.NewSet[string]()
	out := make([]DrugClass, 0, min(len(classes), max(limit, 0)))
	for _, c := range classes {
		if limit > 0 && len(out) == limit {
			break
		}
		if seen.Contains(c.ClassID) {
			continue
		}
		seen.Add(c.ClassID)
		out = append(out, c)
	}
	return out
}
