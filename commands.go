// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import "fmt"

// DS620A command vocabulary. These strings are a fixed, reverse-engineered
// set; the updater never sends a command that is not listed here.
const (
	// Status and information queries.
	CmdStatus       = "PSTATUS"
	CmdFWVersion    = "PINFO  FVER"
	CmdSerialNumber = "PINFO  SERIAL_NUMBER"
	CmdUnitStatus   = "PINFO  UNIT_STATUS"
	CmdUpdateStatus = "PINFO  DUNIT_UPD_STS"
	CmdMedia        = "PINFO  MEDIA"
	CmdMediaClass   = "PINFO  MEDIA_CLASS"
	CmdPrintQty     = "PINFO  PQTY"
	CmdMediaQty     = "PINFO  MQTY"
	CmdFreeBuffer   = "PINFO  FREE_PBUFFER"
	CmdSensor       = "PINFO  SENSOR"
	CmdTableVersion = "PTBL_RDVersion"

	// Control commands.
	CmdPrinterReset = "PCNTRL PRINTER_RESET"
	CmdPrinterStart = "PCNTRL START"
	CmdPrintCancel  = "PCNTRL CANCEL"

	// Firmware update commands.
	CmdFlashRewrite = "PFW_UPDFLASH_REWRITE"
	CmdFlashProgram = "PFW_UPDFLASH_PROGRAM"

	// Table (firmware and CWD data) commands.
	CmdWriteFirmware = "PTBL_WTCTRLD_UPDATE"
	CmdWriteCWD      = "PTBL_WTCTRLD_UPDATE_CW"
	CmdCWDReset      = "PTBL_WTCTRLD_CWE_RESET"
	CmdTableCleanup  = "PTBL_CL"

	// Maintenance counters.
	CmdLifeCounter   = "PMNT_RDCOUNTER_LIFE"
	CmdUSBSerialMode = "PMNT_RDUSB_ISERI_SET"
)

// CWDSlotCount is the number of CWD table slots the printer exposes
// (three print-driver and three simplex-driver tables).
const CWDSlotCount = 6

// CmdCWDVersion returns the version query for a CWD table slot (1-based).
func CmdCWDVersion(slot int) string {
	return fmt.Sprintf("PTBL_RDCWD%03d_Version", slot)
}

// CmdCWDChecksum returns the checksum query for a CWD table slot (1-based).
func CmdCWDChecksum(slot int) string {
	return fmt.Sprintf("PTBL_RDCWD%03d_Checksum", slot)
}
