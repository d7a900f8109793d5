package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"foodgram.io/backend/internal/data"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret []byte
}

func NewGCM(secret string) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: []byte(secret),
	}
}

type sealed struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

func lastKeyToJSON(lastKey map[string]types.AttributeValue) ([]byte, error) {
	if len(lastKey) == 0 {
		return nil, nil
	}
	token := make(data.NextToken, len(lastKey))
	for field, value := range lastKey {
		switch v := value.(type) {
		case *types.AttributeValueMemberS:
			token[field] = map[string]string{"S": v.Value}
		case *types.AttributeValueMemberN:
			token[field] = map[string]string{"N": v.Value}
		case *types.AttributeValueMemberB:
			token[field] = map[string]string{"B": base64.StdEncoding.EncodeToString(v.Value)}
		default:
			return nil, fmt.Errorf("unsupported key attribute %s", field)
		}
	}
	return json.Marshal(token)
}

func jsonToLastKey(payload []byte) (map[string]types.AttributeValue, error) {
	var token data.NextToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return nil, err
	}
	lastKey := make(map[string]types.AttributeValue, len(token))
	for field, value := range token {
		if s, ok := value["S"]; ok {
			lastKey[field] = &types.AttributeValueMemberS{Value: s}
		} else if n, ok := value["N"]; ok {
			lastKey[field] = &types.AttributeValueMemberN{Value: n}
		} else if b, ok := value["B"]; ok {
			raw, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return nil, err
			}
			lastKey[field] = &types.AttributeValueMemberB{Value: raw}
		}
	}
	return lastKey, nil
}

// aead keys the cipher per scope so a token cannot be replayed against
// another account's partition.
func (em *EncryptionTokenMarshaler) aead(scope string) (cipher.AEAD, error) {
	mac := hmac.New(sha256.New, em.Secret)
	mac.Write([]byte(scope))
	block, err := aes.NewCipher(mac.Sum(nil))
	if err != nil {
		return nil, err
	}
	return em.Mode(block)
}

func (em *EncryptionTokenMarshaler) Marshal(scope string, lastKey map[string]types.AttributeValue) ([]byte, error) {
	plaintext, err := lastKeyToJSON(lastKey)
	if err != nil || plaintext == nil {
		return nil, err
	}
	aead, err := em.aead(scope)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(sealed{
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(payload)))
	base64.URLEncoding.Encode(encoded, payload)
	return encoded, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(scope string, token []byte) (map[string]types.AttributeValue, error) {
	if len(token) == 0 {
		return nil, nil
	}
	payload := make([]byte, base64.URLEncoding.DecodedLen(len(token)))
	n, err := base64.URLEncoding.Decode(payload, token)
	if err != nil {
		return nil, fmt.Errorf("malformed page token: %w", err)
	}
	var box sealed
	if err := json.Unmarshal(payload[:n], &box); err != nil {
		return nil, fmt.Errorf("malformed page token: %w", err)
	}
	ciphertext, err := hex.DecodeString(box.Ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(box.Nonce)
	if err != nil {
		return nil, err
	}
	aead, err := em.aead(scope)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("malformed page token nonce")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, err
	}
	return jsonToLastKey(plaintext)
}
