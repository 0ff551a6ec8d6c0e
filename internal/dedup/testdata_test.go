package dedup

import "fmt"

const paragraph = "Deduplication of pretraining corpora matters because repeated passages skew what a " +
	"language model memorizes. Crawled web pages often share boilerplate such as navigation menus, " +
	"cookie banners and license footers, and mirrored articles appear on many domains with only " +
	"cosmetic differences. Removing or discounting those copies keeps the training mixture closer " +
	"to the intended distribution and reduces the compute wasted on text the model has already seen."

const unrelated = "Sourdough needs a lively starter, patient folding and a very hot oven; " +
	"bake it covered first so the crust can blister before it browns."

// n near-identical variants of paragraph differing in their last character
func variants(n int) []Document {
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = NewDocument(fmt.Sprintf("%s%d", paragraph, i))
	}
	return docs
}

func texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

func docs(texts ...string) []Document {
	out := make([]Document, len(texts))
	for i, t := range texts {
		out[i] = NewDocument(t)
	}
	return out
}

// chainA, chainB and chainC overlap like a chain: each neighbouring pair
// shares three of four sentences (Jaccard near 0.6) while chainA and chainC
// share two (near 0.33)
const (
	harbour  = "Harbour cranes lift painted containers onto the waiting cargo ship at dawn. "
	glaciers = "Glaciers carve slow valleys through the granite over many thousand years. "
	violin   = "A violinist tunes her instrument backstage before the evening concert begins. "
	bees     = "Beekeepers smoke the hive gently so the colony stays calm during inspection. "
	trains   = "Night trains rattle across the iron bridge carrying sleepy passengers south. "
	basil    = "Fresh basil and ripe tomatoes make the simplest summer sauce for pasta. "

	chainA = harbour + glaciers + bees + trains
	chainB = glaciers + bees + trains + violin
	chainC = bees + trains + violin + basil
)

// sketch settings under which the chain links are candidates but the ends are
// not; FNV keeps the signatures independent of the default backend
func chainSketch() SketchConfig {
	return SketchConfig{Threshold: 0.5, NgramSize: DefaultNgramSize, NumPerm: DefaultNumPerm}
}
