// Package redisdb publishes built topologies into Redis as one hash per
// switch, host and link, keyed the way SONiC CONFIG_DB keys its tables
// ("TABLE|key").
package redisdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/leafspine/pkg/fabric"
	"github.com/newtron-network/leafspine/pkg/util"
)

// Table names.
const (
	TableSwitch   = "SWITCH"
	TableHost     = "HOST"
	TableLink     = "LINK"
	TableTopology = "TOPOLOGY"
)

var entityTables = []string{TableSwitch, TableHost, TableLink}

// Entry is a single hash to be written.
type Entry struct {
	Key    string
	Fields map[string]string
}

// Summary is the TOPOLOGY|<name> record read back by Load.
type Summary struct {
	Name        string
	Params      fabric.Params
	Protocol    string
	Controller  string
	Switches    int
	Hosts       int
	Links       int
	PublishedAt time.Time
}

// Client wraps a Redis connection used as a topology registry.
type Client struct {
	client *redis.Client
	now    func() time.Time
}

// New creates a client for addr and database db.
func New(addr string, db int) *Client {
	return NewFromClient(redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	}))
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(c *redis.Client) *Client {
	return &Client{client: c, now: time.Now}
}

// Connect tests the connection.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", util.ErrNotConnected, err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Key builds a "TABLE|name|id" key.
func Key(table, name, id string) string {
	return table + "|" + name + "|" + id
}

// LinkID is the id half of a LINK key ("spine1~leaf2").
func LinkID(l fabric.Link) string {
	return l.A + "~" + l.B
}

// Entries converts a topology into the hashes Publish writes. The
// TOPOLOGY summary entry is last.
func Entries(name string, t *fabric.Topology, publishedAt time.Time) []Entry {
	out := make([]Entry, 0, len(t.Switches)+len(t.Hosts)+len(t.Links)+1)

	for _, sw := range t.Switches {
		out = append(out, Entry{
			Key: Key(TableSwitch, name, sw.Name),
			Fields: map[string]string{
				"tier":     string(sw.Tier),
				"index":    strconv.Itoa(sw.Index),
				"protocol": t.Options.Protocol,
			},
		})
	}
	for _, h := range t.Hosts {
		out = append(out, Entry{
			Key: Key(TableHost, name, h.Name),
			Fields: map[string]string{
				"seq":      strconv.Itoa(h.Seq),
				"leaf":     h.LeafName(),
				"position": strconv.Itoa(h.Position),
				"ip":       h.IP,
				"mac":      h.MAC,
			},
		})
	}
	for _, l := range t.Links {
		out = append(out, Entry{
			Key: Key(TableLink, name, LinkID(l)),
			Fields: map[string]string{
				"class": string(l.Class),
				"bw":    formatFloat(l.Bandwidth),
				"delay": l.Delay.String(),
				"loss":  formatFloat(l.Loss),
			},
		})
	}

	summary := map[string]string{
		"spines":         strconv.Itoa(t.Params.Spines),
		"leaves":         strconv.Itoa(t.Params.Leaves),
		"hosts_per_leaf": strconv.Itoa(t.Params.HostsPerLeaf),
		"radix":          strconv.Itoa(t.Params.Radix),
		"protocol":       t.Options.Protocol,
		"switches":       strconv.Itoa(len(t.Switches)),
		"hosts":          strconv.Itoa(len(t.Hosts)),
		"links":          strconv.Itoa(len(t.Links)),
		"published_at":   publishedAt.UTC().Format(time.RFC3339),
	}
	if ctrl := t.Options.Controller; ctrl != nil {
		summary["controller"] = fmt.Sprintf("%s:%d", ctrl.Host, ctrl.Port)
	}
	out = append(out, Entry{Key: TableTopology + "|" + name, Fields: summary})
	return out
}

// Publish writes a topology under name, replacing anything previously
// published under the same name. All deletes and writes go through a
// single MULTI/EXEC transaction.
func (c *Client) Publish(ctx context.Context, name string, t *fabric.Topology) error {
	if err := util.ValidateTopologyName(name); err != nil {
		return err
	}
	log := util.WithTopology(name)

	stale, err := c.topologyKeys(ctx, name)
	if err != nil {
		return err
	}
	entries := Entries(name, t, c.now())

	pipe := c.client.TxPipeline()
	if len(stale) > 0 {
		pipe.Del(ctx, stale...)
	}
	for _, e := range entries {
		pipe.HSet(ctx, e.Key, hashArgs(e.Fields)...)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}

	log.Infof("Published %d entries (replaced %d)", len(entries), len(stale))
	return nil
}

// Load reads back the summary of a published topology.
func (c *Client) Load(ctx context.Context, name string) (*Summary, error) {
	if err := util.ValidateTopologyName(name); err != nil {
		return nil, err
	}
	vals, err := c.client.HGetAll(ctx, TableTopology+"|"+name).Result()
	if err != nil {
		return nil, fmt.Errorf("reading topology %s: %w", name, err)
	}
	if len(vals) == 0 {
		return nil, util.NewNotFoundError("topology", name)
	}
	return parseSummary(name, vals)
}

// List returns the names of all published topologies, sorted.
func (c *Client) List(ctx context.Context) ([]string, error) {
	keys, err := scanKeys(ctx, c.client, TableTopology+"|*", 100)
	if err != nil {
		return nil, fmt.Errorf("listing topologies: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, TableTopology+"|"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes every key of a published topology.
func (c *Client) Delete(ctx context.Context, name string) error {
	if err := util.ValidateTopologyName(name); err != nil {
		return err
	}
	keys, err := c.topologyKeys(ctx, name)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return util.NewNotFoundError("topology", name)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}
	util.WithTopology(name).Infof("Deleted %d keys", len(keys))
	return nil
}

// topologyKeys returns every existing key belonging to name.
func (c *Client) topologyKeys(ctx context.Context, name string) ([]string, error) {
	var keys []string
	for _, table := range entityTables {
		batch, err := scanKeys(ctx, c.client, Key(table, globEscape(name), "*"), 100)
		if err != nil {
			return nil, fmt.Errorf("scanning %s keys: %w", table, err)
		}
		keys = append(keys, batch...)
	}
	n, err := c.client.Exists(ctx, TableTopology+"|"+name).Result()
	if err != nil {
		return nil, fmt.Errorf("checking topology %s: %w", name, err)
	}
	if n > 0 {
		keys = append(keys, TableTopology+"|"+name)
	}
	return keys, nil
}

// globEscape quotes Redis MATCH metacharacters so s matches only itself.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseSummary(name string, vals map[string]string) (*Summary, error) {
	s := &Summary{
		Name:       name,
		Protocol:   vals["protocol"],
		Controller: vals["controller"],
	}
	ints := []struct {
		field string
		dst   *int
	}{
		{"spines", &s.Params.Spines},
		{"leaves", &s.Params.Leaves},
		{"hosts_per_leaf", &s.Params.HostsPerLeaf},
		{"radix", &s.Params.Radix},
		{"switches", &s.Switches},
		{"hosts", &s.Hosts},
		{"links", &s.Links},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(vals[f.field])
		if err != nil {
			return nil, fmt.Errorf("topology %s: field %s: %w", name, f.field, err)
		}
		*f.dst = v
	}
	if ts := vals["published_at"]; ts != "" {
		at, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("topology %s: field published_at: %w", name, err)
		}
		s.PublishedAt = at
	}
	return s, nil
}

func hashArgs(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// scanKeys collects keys matching pattern using cursor-based SCAN.
func scanKeys(ctx context.Context, client *redis.Client, pattern string, countHint int64) ([]string, error) {
	var cursor uint64
	var keys []string
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, countHint).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
