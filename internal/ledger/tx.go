package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// Program addresses referenced by anchoring transactions.
const (
	systemProgramID = "11111111111111111111111111111111"
	memoProgramID   = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
)

// buildAnchorTransaction serializes a signed legacy transaction containing a
// zero-lamport self-transfer plus a memo instruction. Account table layout:
// 0 = wallet (writable signer), 1 = system program, 2 = memo program.
func buildAnchorTransaction(wallet *Wallet, recentBlockhash string, memo string) ([]byte, error) {
	blockhash, err := base58.Decode(recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("decode blockhash: %w", err)
	}
	if len(blockhash) != 32 {
		return nil, fmt.Errorf("blockhash must be 32 bytes, got %d", len(blockhash))
	}
	systemProgram, err := base58.Decode(systemProgramID)
	if err != nil {
		return nil, fmt.Errorf("decode system program id: %w", err)
	}
	memoProgram, err := base58.Decode(memoProgramID)
	if err != nil {
		return nil, fmt.Errorf("decode memo program id: %w", err)
	}

	var msg bytes.Buffer

	// Header: one required signature, no readonly signed accounts, two
	// readonly unsigned accounts (the programs).
	msg.Write([]byte{1, 0, 2})

	writeCompactU16(&msg, 3)
	msg.Write(wallet.PublicKey())
	msg.Write(systemProgram)
	msg.Write(memoProgram)

	msg.Write(blockhash)

	writeCompactU16(&msg, 2)

	// Transfer instruction: index 2 in the system program's enum, zero
	// lamports, from and to both the wallet.
	transferData := make([]byte, 12)
	binary.LittleEndian.PutUint32(transferData[0:4], 2)
	binary.LittleEndian.PutUint64(transferData[4:12], 0)

	msg.WriteByte(1) // program id index: system program
	writeCompactU16(&msg, 2)
	msg.Write([]byte{0, 0}) // from, to
	writeCompactU16(&msg, len(transferData))
	msg.Write(transferData)

	// Memo instruction: no accounts, utf8 payload.
	msg.WriteByte(2) // program id index: memo program
	writeCompactU16(&msg, 0)
	writeCompactU16(&msg, len(memo))
	msg.WriteString(memo)

	signature := wallet.Sign(msg.Bytes())

	var tx bytes.Buffer
	writeCompactU16(&tx, 1)
	tx.Write(signature)
	tx.Write(msg.Bytes())
	return tx.Bytes(), nil
}

// writeCompactU16 appends a shortvec-encoded length, the compact-u16 framing
// Solana uses for all variable-length transaction fields.
func writeCompactU16(buf *bytes.Buffer, n int) {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}
