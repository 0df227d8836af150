package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	c, err := Compile(".")
	require.NoError(t, err)
	require.Len(t, c, len(escrowContracts))

	for i := range c {
		require.Equal(t, escrowContracts[i], c[i].Name)
		require.NotEmpty(t, c[i].NEF.Script)
		require.NotEmpty(t, c[i].Manifest.ABI.Methods, c[i].Name)
		require.NotNil(t, c[i].Manifest.ABI.GetMethod("version", 0), c[i].Name)
	}

	require.Equal(t, "IBetYou Account", c[0].Manifest.Name)
	require.Equal(t, "IBetYou Bet", c[1].Manifest.Name)
	require.Equal(t, "IBetYou Master", c[2].Manifest.Name)

	require.NotNil(t, c[2].Manifest.ABI.GetMethod("bettorJudgeVoteSigned", 4))
	require.NotNil(t, c[0].Manifest.ABI.GetEvent("Payout"))
}

func TestNames(t *testing.T) {
	names := Names()
	require.Equal(t, []string{accountDir, betDir, masterDir}, names)

	names[0] = "changed"
	require.Equal(t, accountDir, Names()[0])
}

func TestGetMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[accountDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = accountDir + "/" + nefName
		manifestPath = accountDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := read(_fs, []string{accountDir})
	require.NoError(t, err)
	require.Len(t, c, 1)
	require.Equal(t, accountDir, c[0].Name)
	require.Equal(t, "zero", c[0].Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = read(_fs, []string{accountDir})
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = read(_fs, []string{accountDir})
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
