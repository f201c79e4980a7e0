// elindel: local re-assembly of reads for indel detection.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elindel/blob/master/LICENSE.txt>.

// Package fasta reads reference sequences from FASTA and .elfasta
// files and cuts reference windows out of them.
package fasta

import (
	"bufio"
	"encoding/binary"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/exascience/elindel/internal"
	"github.com/exascience/elindel/utils"
)

// A Reference gives access to the sequences of a reference genome.
type Reference interface {
	Seq(contig string) []byte
	Close()
}

var upperAndN [256]byte

func init() {
	for i := range upperAndN {
		upperAndN[i] = byte(i)
	}
	for _, c := range "ACGTN" {
		upperAndN[c] = byte(c)
		upperAndN[c+'a'-'A'] = byte(c)
	}
	for _, c := range "RYMKWSBDHV" {
		upperAndN[c] = 'N'
		upperAndN[c+'a'-'A'] = 'N'
	}
}

// ToUpperAndN converts a base to upper case, and normalizes IUPAC
// ambiguity codes to N.
func ToUpperAndN(base byte) byte {
	return upperAndN[base]
}

func contigFromHeader(b []byte) string {
	i := 1
	for ; i < len(b); i++ {
		if c := b[i]; c >= '!' && c <= '~' {
			break
		}
	}
	j := i + 1
	for ; j < len(b); j++ {
		if c := b[j]; c < '!' || c > '~' {
			break
		}
	}
	if j > len(b) {
		j = len(b)
	}
	return string(b[i:j])
}

// Sequences is an in-memory reference, as returned by ParseFasta.
type Sequences map[string][]byte

// Seq returns the sequence of the given contig, or nil.
func (fasta Sequences) Seq(contig string) []byte {
	return fasta[contig]
}

// Close does nothing for in-memory references.
func (fasta Sequences) Close() {}

// ParseFasta parses a (possibly gzipped) FASTA file. Bases are
// converted to upper case, and ambiguity codes to N.
func ParseFasta(filename string) Sequences {
	f := internal.FileOpen(filename)
	defer internal.Close(f)

	scanner := bufio.NewScanner(utils.HandleGzip(bufio.NewReader(f)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024*1024)

	fasta := make(Sequences)
	var contig string
	var seq []byte
	inRecord := false
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		if b[0] == '>' {
			if inRecord {
				fasta[contig] = seq
			}
			contig = contigFromHeader(b)
			seq = nil
			inRecord = true
			continue
		}
		if !inRecord {
			log.Panicf("invalid fasta file %v - missing first header", filename)
		}
		for _, c := range b {
			seq = append(seq, upperAndN[c])
		}
	}
	if err := scanner.Err(); err != nil {
		log.Panic(err)
	}
	if !inRecord {
		log.Panicf("empty fasta file %v", filename)
	}
	fasta[contig] = seq
	return fasta
}

// ElfastaMagic is the magic byte sequence that every .elfasta file starts with.
var ElfastaMagic = []byte{0x31, 0xFA, 0x57, 0xA1}

// ToElfasta stores a reference into a memory-mappable .elfasta file.
// The header lists each contig with the varint offset and size of its
// sequence, followed by the concatenated sequences.
func ToElfasta(fasta Sequences, filename string) {
	file := internal.FileCreate(filename)
	defer internal.Close(file)

	type slot struct {
		contig string
		offset int
	}
	var slots []slot
	offset := internal.Write(file, ElfastaMagic)
	for contig := range fasta {
		offset += internal.WriteString(file, contig)
		offset += internal.WriteString(file, "\t")
		slots = append(slots, slot{contig, offset})
		offset += 2 * binary.MaxVarintLen64
		if _, err := file.Seek(int64(offset), 0); err != nil {
			log.Panic(err)
		}
	}
	offset += internal.WriteString(file, "\n")
	offsets := make(map[string]int, len(fasta))
	for contig, seq := range fasta {
		offsets[contig] = offset
		offset += internal.Write(file, seq)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, offset, unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		log.Panic(err)
	}
	for _, s := range slots {
		binary.PutVarint(data[s.offset:s.offset+binary.MaxVarintLen64], int64(offsets[s.contig]))
		binary.PutVarint(data[s.offset+binary.MaxVarintLen64:s.offset+2*binary.MaxVarintLen64], int64(len(fasta[s.contig])))
	}
	if err := unix.Munmap(data); err != nil {
		log.Panic(err)
	}
}

// MappedFasta is a reference backed by a memory-mapped .elfasta file.
// The file is mapped in the background; Seq and Close wait for it.
type MappedFasta struct {
	wait  sync.WaitGroup
	fasta map[string][]byte
	data  []byte
	file  *os.File
}

func (fasta *MappedFasta) load(filename string) {
	defer fasta.wait.Done()
	file := internal.FileOpen(filename)
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		log.Panic(err)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		log.Panic(err)
	}
	fail := func(format string) {
		_ = unix.Munmap(data)
		_ = file.Close()
		log.Panicf(format, filename)
	}
	if len(data) < len(ElfastaMagic) {
		fail("%v is not a .elfasta file - too short")
	}
	for i, b := range ElfastaMagic {
		if data[i] != b {
			fail("%v is not a .elfasta file - invalid magic byte sequence")
		}
	}
	sequences := make(map[string][]byte)
	index := len(ElfastaMagic)
	for data[index] != '\n' {
		start := index
		for data[index] != '\t' {
			index++
		}
		contig := string(data[start:index])
		index++
		offset, n := binary.Varint(data[index : index+binary.MaxVarintLen64])
		if n <= 0 {
			fail("bad offset in elfasta file %v")
		}
		size, n := binary.Varint(data[index+binary.MaxVarintLen64 : index+2*binary.MaxVarintLen64])
		if n <= 0 {
			fail("bad size in elfasta file %v")
		}
		sequences[contig] = data[offset : offset+size]
		index += 2 * binary.MaxVarintLen64
	}
	fasta.fasta = sequences
	fasta.data = data
	fasta.file = file
}

// OpenElfasta maps a .elfasta file.
func OpenElfasta(filename string) *MappedFasta {
	fasta := new(MappedFasta)
	fasta.wait.Add(1)
	go fasta.load(filename)
	return fasta
}

// Seq returns the sequence of the given contig, or nil.
func (fasta *MappedFasta) Seq(contig string) []byte {
	fasta.wait.Wait()
	return fasta.fasta[contig]
}

// Close unmaps the .elfasta file.
func (fasta *MappedFasta) Close() {
	fasta.wait.Wait()
	err := unix.Munmap(fasta.data)
	if nerr := fasta.file.Close(); err == nil {
		err = nerr
	}
	fasta.data, fasta.file, fasta.fasta = nil, nil, nil
	if err != nil {
		log.Panic(err)
	}
}

// Open opens a reference, memory-mapping it if it is an .elfasta
// file and parsing it otherwise.
func Open(filename string) Reference {
	if filepath.Ext(filename) == ".elfasta" {
		return OpenElfasta(filename)
	}
	return ParseFasta(filename)
}
