package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapzap/zapzap/genetic"
)

func TestSnapshotConstraintsNamesEveryGene(t *testing.T) {
	constraints := genetic.DefaultConstraints()
	snapshot := SnapshotConstraints(constraints)

	require.Len(t, snapshot.Genes, len(constraints))
	for _, g := range snapshot.Genes {
		assert.NotEqual(t, "unknown", g.Name)
	}
}

func TestWriteConstraintSnapshotWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constraints.yaml")
	require.NoError(t, WriteConstraintSnapshot(genetic.DefaultConstraints(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aggression_bias")
}

func TestWriteCurriculumSnapshotWritesYAML(t *testing.T) {
	curriculum, err := BuildCurriculum(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	curriculum.RecordBatch(10, 6)

	path := filepath.Join(t.TempDir(), "curriculum.yaml")
	require.NoError(t, WriteCurriculumSnapshot(curriculum, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "total_games_played")
}
