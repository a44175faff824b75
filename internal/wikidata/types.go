package wikidata

import (
	"encoding/json"
	"fmt"
)

// Wikidata property identifiers used by the bot.
const (
	PropInstanceOf     = "P31"
	PropEntrezGeneID   = "P351" // aka NCBI gene ID
	PropUniProtID      = "P352"
	PropEnsemblGeneID  = "P594"
	PropOrtholog       = "P684"
	PropNCBITaxonomyID = "P685"
	PropEncodes        = "P688"
	PropFoundInTaxon   = "P703"
	PropStatedIn       = "P248"
	PropReferenceURL   = "P854"
)

// OMAItemID is the Wikidata item for the OMA (Orthologous MAtrix) database,
// used as the "stated in" reference on every ortholog statement.
const OMAItemID = "Q7104801"

// DataValue is the typed value carried by a snak.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Snak is a single property-value assertion within a claim, qualifier or reference.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataType  string     `json:"datatype,omitempty"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// entityIDValue mirrors the wikibase-entityid datavalue payload.
type entityIDValue struct {
	EntityType string `json:"entity-type"`
	ID         string `json:"id"`
}

// EntityID decodes the snak's datavalue as a wikibase entity id (e.g. "Q12345").
func (s Snak) EntityID() (string, error) {
	if s.DataValue == nil {
		return "", fmt.Errorf("snak %s has no datavalue", s.Property)
	}
	var v entityIDValue
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return "", fmt.Errorf("snak %s is not an entity id: %w", s.Property, err)
	}
	if v.ID == "" {
		return "", fmt.Errorf("snak %s has an empty entity id", s.Property)
	}
	return v.ID, nil
}

// StringValue decodes the snak's datavalue as a plain string (external ids, URLs).
func (s Snak) StringValue() (string, error) {
	if s.DataValue == nil {
		return "", fmt.Errorf("snak %s has no datavalue", s.Property)
	}
	var v string
	if err := json.Unmarshal(s.DataValue.Value, &v); err != nil {
		return "", fmt.Errorf("snak %s is not a string value: %w", s.Property, err)
	}
	return v, nil
}

// Reference is one reference block attached to a claim.
type Reference struct {
	Snaks      map[string][]Snak `json:"snaks"`
	SnaksOrder []string          `json:"snaks-order,omitempty"`
}

// Claim is a full statement on an entity: main snak plus optional qualifiers
// and references.
type Claim struct {
	MainSnak   Snak              `json:"mainsnak"`
	Type       string            `json:"type"`
	Rank       string            `json:"rank,omitempty"`
	Qualifiers map[string][]Snak `json:"qualifiers,omitempty"`
	References []Reference       `json:"references,omitempty"`
}

// Claims maps a property id to the ordered claim list an entity carries for it.
type Claims map[string][]Claim

// NewItemSnak builds a value snak pointing at another entity.
func NewItemSnak(property, itemID string) Snak {
	raw, _ := json.Marshal(entityIDValue{EntityType: "item", ID: itemID})
	return Snak{
		SnakType: "value",
		Property: property,
		DataType: "wikibase-item",
		DataValue: &DataValue{
			Type:  "wikibase-entityid",
			Value: raw,
		},
	}
}

// NewExternalIDSnak builds a value snak carrying an external identifier.
func NewExternalIDSnak(property, id string) Snak {
	raw, _ := json.Marshal(id)
	return Snak{
		SnakType: "value",
		Property: property,
		DataType: "external-id",
		DataValue: &DataValue{
			Type:  "string",
			Value: raw,
		},
	}
}

// NewURLSnak builds a value snak carrying a URL string.
func NewURLSnak(property, url string) Snak {
	raw, _ := json.Marshal(url)
	return Snak{
		SnakType: "value",
		Property: property,
		DataType: "url",
		DataValue: &DataValue{
			Type:  "string",
			Value: raw,
		},
	}
}
