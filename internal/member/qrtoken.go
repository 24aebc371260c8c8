package member

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/liftdesk/liftdesk/internal/ids"
)

// QR tokens are a de-facto wire format: previously issued membership cards
// must keep validating, so the pattern below never changes shape.
//
//	GYM-<gymId prefix>-MEM-<memberId prefix>-<random>
//
// Only the random suffix is unpredictable; the id prefixes exist for
// debuggability, not security.
var qrTokenRE = regexp.MustCompile(`^GYM-([A-Za-z0-9_-]+)-MEM-([A-Za-z0-9_-]+)-([A-Za-z0-9_-]+)$`)

const qrRandomLen = 12

func GenerateQRToken(gymID, memberID string) string {
	return "GYM-" + prefix8(gymID) + "-MEM-" + prefix8(memberID) + "-" + ids.NewN(qrRandomLen)
}

type ParsedQRToken struct {
	GymIDPrefix    string
	MemberIDPrefix string
	UniqueCode     string
}

func ParseQRToken(token string) (ParsedQRToken, bool) {
	m := qrTokenRE.FindStringSubmatch(token)
	if m == nil {
		return ParsedQRToken{}, false
	}
	return ParsedQRToken{
		GymIDPrefix:    m[1],
		MemberIDPrefix: m[2],
		UniqueCode:     m[3],
	}, true
}

func ValidateQRTokenFormat(token string) bool {
	return qrTokenRE.MatchString(token)
}

func prefix8(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// memberNumberAlphabet is the nanoid alphabet uppercased; member numbers are
// printed on cards, so the random part stays short.
const memberNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_-"

// NewMemberNumber returns the human-facing card identifier:
// MEM-<millisecond timestamp in base36, uppercased>-<4 random chars>.
// Globally unique by construction, backed by a unique index.
func NewMemberNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "MEM-" + ts + "-" + ids.Alphabet(memberNumberAlphabet, 4)
}
