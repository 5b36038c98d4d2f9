// Package filter narrows listed repositories down to the candidates an
// operator chooses from.
package filter
