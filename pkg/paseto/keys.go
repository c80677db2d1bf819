package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted
	ModePublic Mode = "public" // v4.public, signed
)

// Keys holds the material for one mode. The API both issues and verifies
// tokens, so public mode always carries the secret half.
type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

// KeyStrings is the hex encoded form found in config.
type KeyStrings struct {
	Mode         Mode
	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		raw := strings.TrimSpace(in.SymmetricHex)
		if raw == "" {
			return Keys{}, ErrConfig{Msg: "local mode needs authentication.paseto.local_key_hex"}
		}
		k, err := paseto.V4SymmetricKeyFromHex(raw)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid local key hex: " + err.Error()}
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		secRaw := strings.TrimSpace(in.SecretHex)
		if secRaw == "" {
			return Keys{}, ErrConfig{Msg: "public mode needs authentication.paseto.secret_key_hex"}
		}
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secRaw)
		if err != nil {
			return Keys{}, ErrConfig{Msg: "invalid secret key hex: " + err.Error()}
		}
		pk := sk.Public()

		// an explicit public key must be the secret's own half
		if pubRaw := strings.TrimSpace(in.PublicHex); pubRaw != "" {
			given, err := paseto.NewV4AsymmetricPublicKeyFromHex(pubRaw)
			if err != nil {
				return Keys{}, ErrConfig{Msg: "invalid public key hex: " + err.Error()}
			}
			if given.ExportHex() != pk.ExportHex() {
				return Keys{}, ErrConfig{Msg: "public key does not match secret key"}
			}
		}
		return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}, nil

	default:
		return Keys{}, ErrConfig{Msg: "unknown mode " + string(in.Mode) + " (use local|public)"}
	}
}

// Strings is the inverse of LoadKeys, used by the keygen command.
func (k Keys) Strings() KeyStrings {
	out := KeyStrings{Mode: k.Mode}
	if k.Symmetric != nil {
		out.SymmetricHex = k.Symmetric.ExportHex()
	}
	if k.Secret != nil {
		out.SecretHex = k.Secret.ExportHex()
	}
	if k.Public != nil {
		out.PublicHex = k.Public.ExportHex()
	}
	return out
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
