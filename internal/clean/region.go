package clean

import (
	"strconv"
	"strings"
)

// RegionFromZipcode maps the first two digits of a 5-digit Korean postal
// code to one of the 17 administrative regions, following Korea Post
// prefix ranges. Unmappable prefixes return "기타"; values that are not
// postal codes at all return "Unknown".
func RegionFromZipcode(zipcode string) string {
	zipcode = strings.TrimSpace(zipcode)
	n, err := strconv.Atoi(zipcode)
	if err != nil || n < 0 {
		return unknownLabel
	}

	// Normalise to 5 digits so "1234" reads as "01234".
	padded := zipcode
	for len(padded) < 5 {
		padded = "0" + padded
	}
	prefix, err := strconv.Atoi(padded[:2])
	if err != nil {
		return unknownLabel
	}

	switch {
	case prefix >= 1 && prefix <= 9:
		return "서울"
	case prefix >= 10 && prefix <= 20:
		return "경기"
	case prefix >= 21 && prefix <= 23:
		return "인천"
	case prefix >= 24 && prefix <= 26:
		return "강원"
	case prefix >= 27 && prefix <= 29:
		return "충북"
	case prefix == 30:
		return "세종"
	case prefix >= 31 && prefix <= 33:
		return "충남"
	case prefix >= 34 && prefix <= 35:
		return "대전"
	case prefix >= 36 && prefix <= 39:
		return "경북"
	case prefix >= 40 && prefix <= 43:
		return "대구"
	case prefix >= 44 && prefix <= 45:
		return "울산"
	case prefix >= 46 && prefix <= 49:
		return "부산"
	case prefix >= 50 && prefix <= 53:
		return "경남"
	case prefix >= 54 && prefix <= 56:
		return "전북"
	case prefix >= 57 && prefix <= 60:
		return "전남"
	case prefix >= 61 && prefix <= 62:
		return "광주"
	case prefix == 63:
		return "제주"
	default:
		return "기타"
	}
}
