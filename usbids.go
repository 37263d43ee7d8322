// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

// USB vendor IDs the DS620A family ships under.
const (
	VendorDNP     = 0x1343
	VendorCitizen = 0x1452
)

// USBID identifies one USB product.
type USBID struct {
	VID uint16
	PID uint16
}

// KnownUSBIDs lists every VID:PID pair the printer family is known to
// enumerate as, across firmware generations and OEM brandings.
var KnownUSBIDs = []USBID{
	{VendorDNP, 0x0001},
	{VendorDNP, 0x0002},
	{VendorDNP, 0x0003},
	{VendorDNP, 0x0004},
	{VendorDNP, 0x0005},
	{VendorDNP, 0x0006},
	{VendorDNP, 0x0007},
	{VendorDNP, 0x0008},
	{VendorDNP, 0x0009},
	{VendorDNP, 0x1001},
	// A device mid-update can re-enumerate with a bootstrap PID.
	{VendorDNP, 0xFFFF},
	{VendorCitizen, 0x8b01},
	{VendorCitizen, 0x8b02},
	{VendorCitizen, 0x9001},
	{VendorCitizen, 0x9201},
	{VendorCitizen, 0x9301},
	{VendorCitizen, 0x9401},
}

// KnownUSBID reports whether vid:pid belongs to the printer family.
func KnownUSBID(vid, pid uint16) bool {
	for _, id := range KnownUSBIDs {
		if id.VID == vid && id.PID == pid {
			return true
		}
	}
	return false
}
