package verify

import (
	"regexp"
	"strings"
)

// stateCodes maps the first two GSTIN digits to the registered state or
// union territory. Covers the codes in active circulation.
var stateCodes = map[string]string{
	"01": "Jammu & Kashmir", "02": "Himachal Pradesh", "03": "Punjab", "04": "Chandigarh",
	"05": "Uttarakhand", "06": "Haryana", "07": "Delhi", "08": "Rajasthan",
	"09": "Uttar Pradesh", "10": "Bihar", "11": "Sikkim", "12": "Arunachal Pradesh",
	"13": "Nagaland", "14": "Manipur", "15": "Mizoram", "16": "Tripura",
	"17": "Meghalaya", "18": "Assam", "19": "West Bengal", "20": "Jharkhand",
	"21": "Odisha", "22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"27": "Maharashtra", "29": "Karnataka", "30": "Goa", "32": "Kerala",
	"33": "Tamil Nadu", "36": "Telangana", "37": "Andhra Pradesh",
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	gstinShapeRe = regexp.MustCompile(`^[0-9A-Z]{15}$`)
	panShapeRe   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// ChecksumChar computes the 15th GSTIN check character from the first 14.
// Each character is read as a base-36 digit, weighted 1 at even positions
// and 2 at odd, and the digit sum of each product feeds the running total.
// Returns '?' if the input carries a non-base-36 character.
func ChecksumChar(gstin14 string) byte {
	total := 0
	for i := 0; i < len(gstin14); i++ {
		val := strings.IndexByte(base36Alphabet, gstin14[i])
		if val < 0 {
			return '?'
		}
		weight := 1
		if i%2 == 1 {
			weight = 2
		}
		prod := val * weight
		total += prod/36 + prod%36
	}
	check := (36 - total%36) % 36
	return base36Alphabet[check]
}

// ValidateGSTIN checks the 15-character GSTIN structure: state code, embedded
// PAN shape, entity code, the fixed 'Z' marker, and the checksum character.
// A value that fails the 15-alphanumeric pre-check is not evaluated further;
// past that gate every sub-check runs so the error list reports everything
// wrong at once.
func ValidateGSTIN(raw string) GSTINInfo {
	info := GSTINInfo{Raw: raw, Errors: []string{}}
	if raw == "" {
		info.Errors = append(info.Errors, "Missing GSTIN")
		return info
	}

	norm := strings.ToUpper(strings.TrimSpace(raw))
	info.Normalized = norm
	if !gstinShapeRe.MatchString(norm) {
		info.Errors = append(info.Errors, "GSTIN must be 15 alphanumeric (uppercase)")
		return info
	}

	if name, ok := stateCodes[norm[:2]]; ok {
		info.State = &StateInfo{Code: norm[:2], Name: name}
	} else {
		info.Errors = append(info.Errors, "Unknown/invalid state code: "+norm[:2])
	}

	if pan := norm[2:12]; panShapeRe.MatchString(pan) {
		info.PAN = pan
	} else {
		info.Errors = append(info.Errors, "Embedded PAN structure invalid (AAAAA9999A)")
	}

	if !isEntityCode(norm[12]) {
		info.Errors = append(info.Errors, "13th entity code looks invalid")
	}
	if norm[13] != 'Z' {
		info.Errors = append(info.Errors, "14th char must be 'Z'")
	}

	if exp := ChecksumChar(norm[:14]); norm[14] != exp {
		info.Errors = append(info.Errors, "Checksum mismatch")
		info.ExpectedChecksum = string(exp)
	}

	info.Valid = len(info.Errors) == 0
	return info
}

func isEntityCode(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}
