package entity

import "strings"

// ProductRecord is one parsed product file. Fields holds the colon-delimited
// lines with normalized keys, Source the verbatim file text.
type ProductRecord struct {
	Name   string
	Fields map[string]string
	Source string
}

func (p ProductRecord) Field(key string) (string, bool) {
	v, ok := p.Fields[NormalizeFieldName(key)]
	return v, ok
}

// ProductDescription is the free-text description kept in a product folder.
type ProductDescription struct {
	Product string
	Text    string
}

// NormalizeFieldName lower-cases a field name and replaces spaces with underscores.
func NormalizeFieldName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ParseProductRecord parses "key: value" lines. Lines without a colon are
// ignored; ok is false when no field could be parsed.
func ParseProductRecord(name, content string) (ProductRecord, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return ProductRecord{}, false
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[NormalizeFieldName(key)] = strings.TrimSpace(value)
	}
	if len(fields) == 0 {
		return ProductRecord{}, false
	}

	return ProductRecord{
		Name:   name,
		Fields: fields,
		Source: content,
	}, true
}
