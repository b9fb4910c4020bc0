package common

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.Seed(time.Now().UnixNano())
	node, err := snowflake.NewNode(int64(rand.Intn(1023)))
	if err != nil {
		panic(err)
	}
	snowflakeNode = node
}

// UUIDint64 returns a snowflake based int64 identifier
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake based string identifier
func UUID() string {
	return snowflakeNode.Generate().String()
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents removes combining diacritical marks, so that
// "Algodón" folds to "Algodon". Returns the input unchanged when the
// transform fails.
func FoldAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// IsEmptyOrNA reports whether a string is blank or a textual n/a marker
func IsEmptyOrNA(val string) bool {
	v := strings.TrimSpace(strings.ToLower(val))
	return v == "" || v == "n/a" || v == "na"
}
