package domain

import "encoding/json"

// JSON methods of the dialog model. Decoding fills the typed fields and
// keeps a copy of the input; encoding returns that copy when present and
// falls back to the typed fields for values built in code.

func keepSource(data []byte) json.RawMessage {
	return append(json.RawMessage(nil), data...)
}

func (r *DialogResult) UnmarshalJSON(data []byte) error {
	type plain DialogResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = DialogResult(p)
	r.source = keepSource(data)
	return nil
}

func (r DialogResult) MarshalJSON() ([]byte, error) {
	if r.source != nil {
		return r.source, nil
	}
	type plain DialogResult
	return json.Marshal(plain(r))
}

func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Conversation(p)
	c.source = keepSource(data)
	return nil
}

func (c Conversation) MarshalJSON() ([]byte, error) {
	if c.source != nil {
		return c.source, nil
	}
	type plain Conversation
	return json.Marshal(plain(c))
}

// UnmarshalJSON accepts any content. Content is only decoded as a string
// for text messages; cards, buttons and quick replies stay in the source.
func (m *DialogMessage) UnmarshalJSON(data []byte) error {
	var wire struct {
		Content json.RawMessage `json:"content"`
		Type    string          `json:"type"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*m = DialogMessage{Type: wire.Type, source: keepSource(data)}
	if wire.Type == MessageTypeText && len(wire.Content) > 0 {
		var text string
		if err := json.Unmarshal(wire.Content, &text); err == nil {
			m.Content = text
		}
	}
	return nil
}

func (m DialogMessage) MarshalJSON() ([]byte, error) {
	if m.source != nil {
		return m.source, nil
	}
	type plain DialogMessage
	return json.Marshal(plain(m))
}

func (n *NLP) UnmarshalJSON(data []byte) error {
	type plain NLP
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = NLP(p)
	n.source = keepSource(data)
	return nil
}

func (n NLP) MarshalJSON() ([]byte, error) {
	if n.source != nil {
		return n.source, nil
	}
	type plain NLP
	return json.Marshal(plain(n))
}

func (i *Intent) UnmarshalJSON(data []byte) error {
	type plain Intent
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Intent(p)
	i.source = keepSource(data)
	return nil
}

func (i Intent) MarshalJSON() ([]byte, error) {
	if i.source != nil {
		return i.source, nil
	}
	type plain Intent
	return json.Marshal(plain(i))
}

func (l *Location) UnmarshalJSON(data []byte) error {
	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	l.source = keepSource(data)
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	if l.source != nil {
		return l.source, nil
	}
	type plain Location
	return json.Marshal(plain(l))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	type plain DateTime
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DateTime(p)
	d.source = keepSource(data)
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.source != nil {
		return d.source, nil
	}
	type plain DateTime
	return json.Marshal(plain(d))
}

func (c *Cryptomonnaie) UnmarshalJSON(data []byte) error {
	type plain Cryptomonnaie
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Cryptomonnaie(p)
	c.source = keepSource(data)
	return nil
}

func (c Cryptomonnaie) MarshalJSON() ([]byte, error) {
	if c.source != nil {
		return c.source, nil
	}
	type plain Cryptomonnaie
	return json.Marshal(plain(c))
}
