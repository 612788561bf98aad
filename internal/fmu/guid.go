package fmu

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

var guidKey = []byte("dynfmu-model-description-guid-k1")

// ComputeGUID derives a stable GUID from the model name and the variable
// table (names, types, causalities and variabilities in order). Two builds
// that expose the same interface get the same GUID.
func ComputeGUID(modelName string, r *Registry) string {
	h, err := highwayhash.New128(guidKey)
	if err != nil {
		panic(err)
	}
	var buf [4]byte
	write := func(s string) {
		binary.LittleEndian.PutUint32(buf[:], uint32(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	write(modelName)
	for _, v := range r.vars {
		write(v.name)
		binary.LittleEndian.PutUint32(buf[:], uint32(v.Type())<<16|uint32(v.meta.Causality)<<8|uint32(v.meta.Variability))
		h.Write(buf[:])
	}

	sum := h.Sum(nil)
	return fmt.Sprintf("{%x-%x-%x-%x-%x}", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}
