package ledgerv1

import "encoding/json"

// Codec marshals LedgerService messages as plain JSON. It registers under the
// "json" name, so Connect serves it for application/json requests.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
