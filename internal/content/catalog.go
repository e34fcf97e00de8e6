package content

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"faceoff/internal/domain"
)

var (
	ErrInvalidContent  = errors.New("invalid content")
	ErrUnknownCard     = errors.New("unknown card")
	ErrUnknownDeck     = errors.New("unknown deck")
	ErrUnknownOpponent = errors.New("unknown opponent")
	ErrUnknownJudge    = errors.New("unknown judge")
)

// DeckEntry is a card template id and how many copies a deck holds.
type DeckEntry struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

// Catalog is the static content a battle is built from. It satisfies
// engine.StatusRegistry.
type Catalog struct {
	Cards         []domain.Card             `yaml:"cards"`
	Decks         map[string][]DeckEntry    `yaml:"decks"`
	Statuses      []domain.StatusTemplate   `yaml:"statuses"`
	Opponents     []domain.OpponentTemplate `yaml:"opponents"`
	Judges        []domain.JudgeTemplate    `yaml:"judges"`
	Flustered     []domain.Intention        `yaml:"flustered"`
	CoreArguments []domain.CoreArgument     `yaml:"core_arguments"`

	cards     map[string]int
	statuses  map[string]int
	opponents map[string]int
	judges    map[string]int
	arguments map[string]int
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}
	c.index()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return Parse(data)
}

func (c *Catalog) index() {
	c.cards = make(map[string]int, len(c.Cards))
	for i, card := range c.Cards {
		c.cards[card.TemplateID] = i
	}
	c.statuses = make(map[string]int, len(c.Statuses))
	for i, st := range c.Statuses {
		c.statuses[st.ID] = i
	}
	c.opponents = make(map[string]int, len(c.Opponents))
	for i, o := range c.Opponents {
		c.opponents[o.ID] = i
	}
	c.judges = make(map[string]int, len(c.Judges))
	for i, j := range c.Judges {
		c.judges[j.ID] = i
	}
	c.arguments = make(map[string]int, len(c.CoreArguments))
	for i, a := range c.CoreArguments {
		c.arguments[a.ID] = i
	}
}

// StatusTemplate looks up a status template by id.
func (c *Catalog) StatusTemplate(id string) (domain.StatusTemplate, bool) {
	i, ok := c.statuses[id]
	if !ok {
		return domain.StatusTemplate{}, false
	}
	return c.Statuses[i], true
}

// Card returns the card template with id. The returned card has no instance id.
func (c *Catalog) Card(id string) (domain.Card, bool) {
	i, ok := c.cards[id]
	if !ok {
		return domain.Card{}, false
	}
	return c.Cards[i], true
}

// Opponent returns the opponent template with id.
func (c *Catalog) Opponent(id string) (domain.OpponentTemplate, error) {
	i, ok := c.opponents[id]
	if !ok {
		return domain.OpponentTemplate{}, fmt.Errorf("%w: %s", ErrUnknownOpponent, id)
	}
	return c.Opponents[i], nil
}

// Judge returns the judge template with id.
func (c *Catalog) Judge(id string) (domain.JudgeTemplate, error) {
	i, ok := c.judges[id]
	if !ok {
		return domain.JudgeTemplate{}, fmt.Errorf("%w: %s", ErrUnknownJudge, id)
	}
	return c.Judges[i], nil
}

// CoreArgument returns the core argument with id.
func (c *Catalog) CoreArgument(id string) (domain.CoreArgument, bool) {
	i, ok := c.arguments[id]
	if !ok {
		return domain.CoreArgument{}, false
	}
	return c.CoreArguments[i], true
}

// Deck expands the named deck into card templates, copies included, in
// declaration order. Instance ids are left for the caller to assign.
func (c *Catalog) Deck(name string) ([]domain.Card, error) {
	entries, ok := c.Decks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeck, name)
	}
	var out []domain.Card
	for _, e := range entries {
		card, ok := c.Card(e.Card)
		if !ok {
			return nil, fmt.Errorf("%w: %s in deck %s", ErrUnknownCard, e.Card, name)
		}
		for range max(e.Count, 1) {
			out = append(out, card)
		}
	}
	return out, nil
}

// FlusteredPool returns the content-supplied flustered actions, or the built-in ones.
func (c *Catalog) FlusteredPool() []domain.Intention {
	if len(c.Flustered) == 0 {
		return domain.DefaultFlusteredPool
	}
	return slices.Clone(c.Flustered)
}
