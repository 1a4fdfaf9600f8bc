package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/minichain/ledger/foundation/blockchain/signature"
)

// The canonical encoding is a plain concatenation of the block fields. The
// transaction list uses ", " and ": " separators with ASCII only string
// escaping so the same block content always produces the same bytes.

// blockString builds the bytes that are hashed to produce a block hash.
func blockString(number uint64, prevBlockHash string, timeStamp float64, trans []Tx, nonce uint64) []byte {
	prefix := blockPrefix(number, prevBlockHash, timeStamp, trans)
	return strconv.AppendUint(prefix, nonce, 10)
}

// blockPrefix builds everything in the block string that comes before the
// nonce. Proof of work encodes this once and appends each candidate nonce.
func blockPrefix(number uint64, prevBlockHash string, timeStamp float64, trans []Tx) []byte {
	var buf bytes.Buffer

	buf.WriteString(strconv.FormatUint(number, 10))
	buf.WriteString(prevBlockHash)
	buf.WriteString(formatTimeStamp(timeStamp))
	writeTrans(&buf, trans)

	return buf.Bytes()
}

// formatTimeStamp renders the timestamp in its shortest round trip form. A
// whole number of seconds still carries a fractional part.
func formatTimeStamp(ts float64) string {
	s := strconv.FormatFloat(ts, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func writeTrans(buf *bytes.Buffer, trans []Tx) {
	buf.WriteByte('[')
	for i, tx := range trans {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeTx(buf, tx)
	}
	buf.WriteByte(']')
}

func writeTx(buf *bytes.Buffer, tx Tx) {
	buf.WriteString(`{"sender": `)
	writeString(buf, string(tx.Sender))
	buf.WriteString(`, "recipient": `)
	writeString(buf, string(tx.Recipient))
	buf.WriteString(`, "amount": `)
	buf.WriteString(strconv.FormatUint(tx.Amount, 10))
	if tx.Signature != nil {
		buf.WriteString(`, "signature": `)
		buf.WriteString(signature.EncodeSlot(*tx.Signature))
	}
	buf.WriteByte('}')
}

// writeString writes s as a quoted JSON string. Anything outside printable
// ASCII is written as a \u escape, using surrogate pairs past the BMP.
func writeString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if r >= 0x20 && r < 0x7f {
				buf.WriteRune(r)
				continue
			}

			units := []uint16{uint16(r)}
			if r > 0xffff {
				r1, r2 := utf16.EncodeRune(r)
				units = []uint16{uint16(r1), uint16(r2)}
			}
			for _, u := range units {
				buf.WriteString(`\u`)
				buf.WriteByte(hex[u>>12&0xf])
				buf.WriteByte(hex[u>>8&0xf])
				buf.WriteByte(hex[u>>4&0xf])
				buf.WriteByte(hex[u&0xf])
			}
		}
	}
	buf.WriteByte('"')
}

// =============================================================================

// UnmarshalJSON implements the json.Unmarshaler interface. A signature key
// that is present but null keeps the signature slot.
func (tx *Tx) UnmarshalJSON(data []byte) error {
	var fields struct {
		Sender    AccountID       `json:"sender"`
		Recipient AccountID       `json:"recipient"`
		Amount    uint64          `json:"amount"`
		Signature json.RawMessage `json:"signature"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding transaction: %w", err)
	}

	*tx = Tx{
		Sender:    fields.Sender,
		Recipient: fields.Recipient,
		Amount:    fields.Amount,
	}

	if fields.Signature == nil {
		return nil
	}

	sig := hexutil.Bytes{}
	if string(fields.Signature) != "null" {
		if err := json.Unmarshal(fields.Signature, &sig); err != nil {
			return fmt.Errorf("decoding signature: %w", err)
		}
	}
	tx.Signature = &sig

	return nil
}
