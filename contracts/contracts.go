/*
Package contracts provides IBetYou contracts ready for deployment.

Contracts are either compiled from the sources stored in the current package
or read from the build artifacts (contract.nef and manifest.json files in the
directory of each contract).
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/cli/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/compiler"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	accountDir = "account"
	betDir     = "bet"
	masterDir  = "master"

	configName   = "config.yml"
	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	// Directory name of the contract: account, bet or master.
	Name     string
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	escrowContracts = []string{
		accountDir,
		betDir,
		masterDir,
	}
)

// Names returns directory names of the escrow contracts in the order they're
// supposed to be deployed.
func Names() []string {
	return append([]string(nil), escrowContracts...)
}

// Read returns escrow contracts from the build artifacts stored in fsys.
// They're returned in the order they're supposed to be deployed starting
// from Account contract.
func Read(fsys fs.FS) ([]Contract, error) {
	return read(fsys, escrowContracts)
}

// Compile compiles escrow contracts from the sources located in srcRoot
// (path to this package). They're returned in the same order as by Read.
func Compile(srcRoot string) ([]Contract, error) {
	var res = make([]Contract, 0, len(escrowContracts))

	for _, name := range escrowContracts {
		c, err := compileContract(filepath.Join(srcRoot, name))
		if err != nil {
			return nil, fmt.Errorf("compile contract %s: %w", name, err)
		}

		c.Name = name
		res = append(res, c)
	}

	return res, nil
}

// read same as Read by allows to override the list of contracts.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		c.Name = dirs[i]
		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}

func compileContract(dir string) (Contract, error) {
	var c Contract

	conf, err := smartcontract.ParseContractConfig(filepath.Join(dir, configName))
	if err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}

	ne, di, err := compiler.CompileWithOptions(dir, nil, nil)
	if err != nil {
		return c, fmt.Errorf("compile sources: %w", err)
	}

	o := &compiler.Options{
		Name:                       conf.Name,
		ContractEvents:             conf.Events,
		ContractSupportedStandards: conf.SupportedStandards,
		SafeMethods:                conf.SafeMethods,
		Permissions:                make([]manifest.Permission, len(conf.Permissions)),
	}
	for i := range conf.Permissions {
		o.Permissions[i] = manifest.Permission(conf.Permissions[i])
	}

	m, err := compiler.CreateManifest(di, o)
	if err != nil {
		return c, fmt.Errorf("create manifest: %w", err)
	}

	c.NEF = *ne
	c.Manifest = *m

	return c, nil
}
