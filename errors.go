package cahc

import "errors"

var (
	// ErrMalformedEncoding is returned when the outer base64 encoding is invalid.
	ErrMalformedEncoding = errors.New("cahc: malformed encoding")

	// ErrTruncated is returned when an envelope is shorter than the fixed header.
	ErrTruncated = errors.New("cahc: truncated envelope")

	// ErrUnsupportedVersion is returned when the envelope version byte is not recognized.
	ErrUnsupportedVersion = errors.New("cahc: unsupported version")

	// ErrAuthenticationFailed is returned when the tag does not match (wrong key, tampered data).
	ErrAuthenticationFailed = errors.New("cahc: authentication failed")

	// ErrInvalidParameter is returned when an encryption or decryption parameter is out of bounds.
	ErrInvalidParameter = errors.New("cahc: invalid parameter")

	// ErrInvalidKey is returned when a master secret is empty.
	ErrInvalidKey = errors.New("cahc: invalid master key, must not be empty")

	// ErrInvalidKeyID is returned when a key ID is empty or invalid.
	ErrInvalidKeyID = errors.New("cahc: invalid key ID")

	// ErrNoKeys is returned when a key provider has no keys to offer.
	ErrNoKeys = errors.New("cahc: no keys available")

	// ErrProviderDestroyed is returned when a destroyed key provider is used.
	ErrProviderDestroyed = errors.New("cahc: key provider destroyed")
)

// IsMalformedEncoding returns true if the error is or wraps ErrMalformedEncoding.
func IsMalformedEncoding(err error) bool {
	return errors.Is(err, ErrMalformedEncoding)
}

// IsTruncated returns true if the error is or wraps ErrTruncated.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}

// IsUnsupportedVersion returns true if the error is or wraps ErrUnsupportedVersion.
func IsUnsupportedVersion(err error) bool {
	return errors.Is(err, ErrUnsupportedVersion)
}

// IsAuthenticationFailed returns true if the error is or wraps ErrAuthenticationFailed.
func IsAuthenticationFailed(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed)
}

// IsInvalidParameter returns true if the error is or wraps ErrInvalidParameter.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsInvalidKey returns true if the error is or wraps ErrInvalidKey.
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

// IsInvalidKeyID returns true if the error is or wraps ErrInvalidKeyID.
func IsInvalidKeyID(err error) bool {
	return errors.Is(err, ErrInvalidKeyID)
}

// IsProviderDestroyed returns true if the error is or wraps ErrProviderDestroyed.
func IsProviderDestroyed(err error) bool {
	return errors.Is(err, ErrProviderDestroyed)
}

// IsInvalidFormat returns true if the input could not be parsed as an
// envelope: bad encoding, truncation or an unknown version.
func IsInvalidFormat(err error) bool {
	return IsMalformedEncoding(err) || IsTruncated(err) || IsUnsupportedVersion(err)
}

// IsDecryptionFailed returns true for any failure on the decryption path.
func IsDecryptionFailed(err error) bool {
	return IsInvalidFormat(err) || IsAuthenticationFailed(err)
}
