// Package idgen は「プレフィックス-ミリ秒時刻-ランダム接尾辞」形式の識別子を生成する。
//
// 生成される識別子は単一プロセス内での利用を前提とした「十分に一意」なもので、
// 同一ミリ秒内での衝突を完全には排除しない。暗号学的な一意性は保証しない。
package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// 各エンティティの識別子プレフィックス。
const (
	PrefixCustomer    = "CUST"
	PrefixUser        = "USER"
	PrefixAppointment = "APT"
	PrefixMessage     = "MSG"
)

// suffixLength はランダム接尾辞の文字数（base36）。
const suffixLength = 9

// suffixSpace は9桁のbase36で表せる値の個数（36^9）。
const suffixSpace = 101559956668416

// Generator は識別子を生成する。
// 時刻と乱数源はテストのために差し替え可能。
type Generator struct {
	now  func() time.Time
	rand io.Reader
}

// New は現在時刻とcrypto/randを使うGeneratorを生成する。
func New() *Generator {
	return &Generator{
		now:  time.Now,
		rand: rand.Reader,
	}
}

// NewWithSource は時刻関数と乱数源を指定してGeneratorを生成する。
func NewWithSource(now func() time.Time, r io.Reader) *Generator {
	return &Generator{now: now, rand: r}
}

// Generate は "{prefix}-{unixMillis}-{小文字base36接尾辞}" を返す。
func (g *Generator) Generate(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), g.suffix())
}

// GenerateUpper は接尾辞を大文字にした識別子を返す。顧客IDで使用する。
func (g *Generator) GenerateUpper(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), strings.ToUpper(g.suffix()))
}

// suffix は乱数源の8バイトから9文字のbase36文字列を作る。
func (g *Generator) suffix() string {
	var b [8]byte
	if _, err := io.ReadFull(g.rand, b[:]); err != nil {
		// 乱数源が枯渇した場合はcrypto/randにフォールバック
		if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
			panic(fmt.Sprintf("idgen: crypto/rand unavailable: %v", err))
		}
	}
	n := binary.BigEndian.Uint64(b[:]) % suffixSpace
	s := strconv.FormatUint(n, 36)
	return strings.Repeat("0", suffixLength-len(s)) + s
}

var defaultGenerator = New()

// Generate はデフォルトのGeneratorで識別子を生成する。
func Generate(prefix string) string {
	return defaultGenerator.Generate(prefix)
}
