package schema

import (
	"github.com/mohitkumar/nodebridge/model"
)

func fptr(v float64) *float64 {
	return &v
}

func rangeConstraint(min, max, step float64) *model.Constraints {
	return &model.Constraints{Min: fptr(min), Max: fptr(max), Step: fptr(step)}
}

func choiceConstraint(choices ...string) *model.Constraints {
	return &model.Constraints{Choices: choices}
}

func registerBuiltins(r *Registry) {
	r.Register("Sampler", []SchemaEntry{
		{Name: "seed", Kind: model.KIND_INTEGER, Constraints: rangeConstraint(0, 0xffffffffffffff, 1), UIHint: "number"},
		{Name: "steps", Kind: model.KIND_INTEGER, Constraints: rangeConstraint(1, 10000, 1), UIHint: "slider"},
		{Name: "cfg", Kind: model.KIND_FLOAT, Constraints: rangeConstraint(0.0, 100.0, 0.1), UIHint: "slider"},
		{Name: "sampler", Kind: model.KIND_ENUM, Constraints: choiceConstraint("euler", "euler_ancestral", "heun", "dpmpp_2m", "dpmpp_sde", "ddim", "uni_pc"), UIHint: "combo"},
		{Name: "scheduler", Kind: model.KIND_ENUM, Constraints: choiceConstraint("normal", "karras", "exponential", "sgm_uniform", "simple", "ddim_uniform"), UIHint: "combo"},
		{Name: "denoise", Kind: model.KIND_FLOAT, Constraints: rangeConstraint(0.0, 1.0, 0.01), UIHint: "slider"},
	})
	r.Register("EmptyLatentImage", []SchemaEntry{
		{Name: "width", Kind: model.KIND_INTEGER, Constraints: rangeConstraint(16, 16384, 8), UIHint: "number"},
		{Name: "height", Kind: model.KIND_INTEGER, Constraints: rangeConstraint(16, 16384, 8), UIHint: "number"},
		{Name: "batch_size", Kind: model.KIND_INTEGER, Constraints: rangeConstraint(1, 64, 1), UIHint: "number"},
	})
	r.Register("CLIPTextEncode", []SchemaEntry{
		{Name: "text", Kind: model.KIND_STRING, UIHint: "multiline"},
	})
	r.Register("CheckpointLoader", []SchemaEntry{
		{Name: "ckpt_name", Kind: model.KIND_STRING, UIHint: "combo"},
	})
	r.Register("StandardSave", []SchemaEntry{
		{Name: "filename_prefix", Kind: model.KIND_STRING, UIHint: "text"},
	})
	r.Register("LoadImage", []SchemaEntry{
		{Name: "image", Kind: model.KIND_STRING, UIHint: "combo"},
	})
	r.Register("VAEDecode", nil)
}
