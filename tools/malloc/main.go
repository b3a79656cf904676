// Command malloc exercises the frost allocators with a randomized
// alloc/free workload and reports utilization, fragmentation and
// process memory at the end of the run.
package main

import "flag"
import "fmt"
import "math/rand"
import "os"
import "strconv"
import "time"

import hm "github.com/dustin/go-humanize"
import "github.com/cloudfoundry/gosigar"

import "github.com/twosigma/frost/api"
import "github.com/twosigma/frost/lib"
import "github.com/twosigma/frost/malloc"

import s "github.com/bnclabs/gosettings"

var options struct {
	capacity  int64
	allocator string
	n         int
	sizes     [2]int // minsize, maxsize
	seed      int
	keep      float64
	prodfile  string
	bagdir    string
	pretty    bool
}

func argParse() {
	var sizes string

	flag.Int64Var(&options.capacity, "capacity", 64*1024*1024,
		"heap region capacity in bytes")
	flag.StringVar(&options.allocator, "allocator", "flist",
		"general allocator algorithm, flist or bump")
	flag.IntVar(&options.n, "n", 100000,
		"number of allocations to perform")
	flag.StringVar(&sizes, "sizes", "",
		"minsize,maxsize - allocate blocks between [minsize,maxsize)")
	flag.IntVar(&options.seed, "seed", 1,
		"random seed")
	flag.Float64Var(&options.keep, "keep", 0.5,
		"fraction of blocks kept live, the rest are freed as we go")
	flag.StringVar(&options.prodfile, "prodfile", "",
		"monster production file for payload generation")
	flag.StringVar(&options.bagdir, "bagdir", "",
		"bag directory for monster sample data")
	flag.BoolVar(&options.pretty, "pretty", false,
		"pretty print the final statistics")
	flag.Parse()

	options.sizes = [2]int{16, 512}
	if sizes != "" {
		for i, field := range lib.Parsecsv(sizes) {
			if i > 1 {
				break
			}
			ln, _ := strconv.Atoi(field)
			options.sizes[i] = ln
		}
	}
	if options.sizes[0] <= 0 || options.sizes[1] <= options.sizes[0] {
		fmt.Printf("invalid -sizes %v\n", options.sizes)
		os.Exit(1)
	}
}

func main() {
	argParse()
	malloc.LogComponents("all")

	setts := malloc.Defaultsettings().Mixin(s.Settings{
		"capacity":  options.capacity,
		"allocator": options.allocator,
	})
	heap := malloc.NewHeap("cmdline", setts)
	m := malloc.NewMallocer(heap, setts)

	payloadch := make(chan []byte, 1000)
	if options.prodfile != "" {
		go generate(options.n, options.prodfile, payloadch)
	} else {
		go randpayloads(options.n, payloadch)
	}

	now := time.Now()
	nallocs, nfrees, failures := stress(m, payloadch)
	took := time.Since(now)
	fmt.Printf("%v allocs, %v frees, %v failures in %v\n",
		nallocs, nfrees, failures, took)

	printutilization(m)
	fmt.Println(lib.Prettystats(m.Stats(), options.pretty))
	printrss()
	m.Release()
}

type liveblock struct {
	block    []byte
	checksum uint32
}

// stress pump payloads through the allocator, keeping a random
// subset of blocks live and verifying block content on every free.
func stress(m api.Mallocer, payloadch <-chan []byte) (int, int, int) {
	rnd := rand.New(rand.NewSource(int64(options.seed)))
	live := make([]liveblock, 0, 1024)
	nallocs, nfrees, failures := 0, 0, 0
	for payload := range payloadch {
		block := m.Alloc(int64(len(payload)))
		if block == nil {
			failures++
			continue
		}
		copy(block, payload)
		nallocs++
		live = append(live, liveblock{block, checksum(block)})
		if rnd.Float64() >= options.keep && len(live) > 0 {
			i := rnd.Intn(len(live))
			lb := live[i]
			if cs := checksum(lb.block); cs != lb.checksum {
				fmt.Printf("block %v corrupted %v != %v\n", i, cs, lb.checksum)
				os.Exit(2)
			}
			m.Free(lb.block)
			nfrees++
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	for _, lb := range live {
		if cs := checksum(lb.block); cs != lb.checksum {
			fmt.Printf("live block corrupted %v != %v\n", cs, lb.checksum)
			os.Exit(2)
		}
		m.Free(lb.block)
		nfrees++
	}
	return nallocs, nfrees, failures
}

func randpayloads(n int, payloadch chan<- []byte) {
	rnd := rand.New(rand.NewSource(int64(options.seed)))
	min, max := options.sizes[0], options.sizes[1]
	for i := 0; i < n; i++ {
		payload := make([]byte, rnd.Intn(max-min)+min)
		for j := range payload {
			payload[j] = byte(97 + rnd.Intn(26))
		}
		payloadch <- payload
	}
	close(payloadch)
}

func checksum(block []byte) uint32 {
	cs := uint32(2166136261)
	for _, c := range block {
		cs = (cs ^ uint32(c)) * 16777619
	}
	return cs
}

func printutilization(m api.Mallocer) {
	capacity, heap, alloc, overhead := m.Info()
	cp := hm.Bytes(uint64(capacity))
	hp := hm.Bytes(uint64(heap))
	al := hm.Bytes(uint64(alloc))
	ov := hm.Bytes(uint64(overhead))
	fmsg := "Heap{capacity:%v claimed:%v alloc:%v overhead:%v utilz:%.2f%%}\n"
	fmt.Printf(fmsg, cp, hp, al, ov, m.Utilization())
}

func printrss() {
	mem := sigar.ProcMem{}
	if err := mem.Get(os.Getpid()); err != nil {
		fmt.Printf("unable to read process memory: %v\n", err)
		return
	}
	fmt.Printf("process rss: %v\n", hm.Bytes(mem.Resident))
}
