package diskmanager

import (
	"os"

	"BrambleDB/types"
)

// ############################################# DISK MANAGER #############################################

// fileHeader mirrors the 16 byte header page at the front of the db
// file: page_size then page_num, both little-endian uint64.
type fileHeader struct {
	pageSize uint64
	pageNum  uint64
}

// fileSize is the recorded end of file: header plus every page the
// header knows about.
func (h fileHeader) fileSize() uint64 {
	return types.DiskHeaderSize + h.pageSize*h.pageNum
}

// DiskManager performs synchronous page reads and writes against a
// single db file. One instance manages exactly one file.
type DiskManager struct {
	filePath string
	file     *os.File
	header   fileHeader
}

// FileStat describes a db file without opening a DiskManager on it.
// Used by the inspection tool and the server's /pagefile route.
type FileStat struct {
	Path     string         `json:"path"`
	PageSize uint64         `json:"page_size"`
	PageNum  uint64         `json:"page_num"`
	Pages    []types.PageID `json:"pages"`
}
