// Package reveal arma los links personales con el resultado del sorteo.
package reveal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

var (
	ErrInvalidLink = errors.New("invalid reveal link")
	ErrNoPhone     = errors.New("participant has no phone number")
)

// Result is what a giver sees when opening their link
type Result struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

// componentEscaper turns url.QueryEscape output into encodeURIComponent output:
// spaces as %20 and the marks !'()* left as they are.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Encode base64-encodes the percent-encoded name, the format the result page reads
func Encode(name string) string {
	escaped := componentEscaper.Replace(url.QueryEscape(name))
	return base64.StdEncoding.EncodeToString([]byte(escaped))
}

// DecodeName reverses Encode
func DecodeName(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	name, err := url.PathUnescape(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidLink
	}
	return name, nil
}

// BuildLink returns <base>/result?u=<giver>&f=<receiver>
func BuildLink(baseURL, giver, receiver string) string {
	q := url.Values{}
	q.Set("u", Encode(giver))
	q.Set("f", Encode(receiver))
	return strings.TrimRight(baseURL, "/") + "/result?" + q.Encode()
}

// Decode reads the u and f parameters of a reveal link
func Decode(u, f string) (Result, error) {
	if u == "" || f == "" {
		return Result{}, ErrInvalidLink
	}
	giver, err := DecodeName(u)
	if err != nil {
		return Result{}, err
	}
	receiver, err := DecodeName(f)
	if err != nil {
		return Result{}, err
	}
	return Result{Giver: giver, Receiver: receiver}, nil
}

// Message is the WhatsApp text sent to a giver
func Message(name, link string) string {
	return "*Amigo Secreto*\n\n" +
		fmt.Sprintf("Olá, *%s*.\n", name) +
		"O sorteio do Amigo Secreto foi realizado com sucesso.\n" +
		"Para descobrir quem você tirou, acesse o link abaixo:\n\n" +
		link + "\n\n" +
		"*Importante:* Este link é pessoal, não compartilhe!"
}

// WhatsAppLink builds a wa.me link to phone with the reveal message
func WhatsAppLink(phone, name, link string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", ErrNoPhone
	}

	text := strings.ReplaceAll(url.QueryEscape(Message(name, link)), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text, nil
}
