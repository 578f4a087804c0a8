package capset_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/capset"
	"github.com/hupe1980/capset/attribute"
	"github.com/hupe1980/capset/filter"
)

// Example demonstrates indexed matching over multi-valued attributes.
func Example() {
	set := capset.New([]string{"os", "arch"})

	r1 := attribute.MustNew("osgi.native",
		attribute.Optional("os", attribute.String("linux")),
		attribute.Optional("arch", attribute.Strings("x86", "arm")),
	)
	r2 := attribute.MustNew("osgi.native",
		attribute.Optional("os", attribute.String("windows")),
		attribute.Optional("arch", attribute.String("x86")),
	)
	for _, c := range []*capset.Capability{r1, r2} {
		if err := set.Add(c); err != nil {
			log.Fatal(err)
		}
	}

	matches, err := set.MatchString("(&(os=linux)(arch=arm))", false)
	if err != nil {
		log.Fatal(err)
	}
	for _, c := range matches {
		fmt.Println(c)
	}

	matches, _ = set.MatchString("(os=*)", false)
	fmt.Println(len(matches))

	set.Remove(r1)
	matches, _ = set.MatchString("(&(os=linux)(arch=arm))", false)
	fmt.Println(len(matches))
	// Output:
	// osgi.native; os=linux; arch=[x86,arm]
	// 2
	// 0
}

// Example_mandatory shows that a capability with a mandatory attribute only
// matches filters that name it.
func Example_mandatory() {
	set := capset.New(nil)
	c := attribute.MustNew("osgi.wiring.package",
		attribute.Optional("name", attribute.String("foo")),
		attribute.Mandatory("vendor", attribute.String("acme")),
	)
	_ = set.Add(c)

	for _, text := range []string{"(name=foo)", "(&(name=foo)(vendor=acme))"} {
		matches, _ := set.MatchString(text, true)
		fmt.Printf("%s: %d\n", text, len(matches))
	}
	// Output:
	// (name=foo): 0
	// (&(name=foo)(vendor=acme)): 1
}

// Example_parse shows the normalized rendering of a parsed filter.
func Example_parse() {
	f, err := filter.Parse(" ( & (os=lin*) (!(version<=1.0.0)) ) ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(f)
	fmt.Println(capset.Matches(attribute.MustNew("n",
		attribute.Optional("os", attribute.String("linux")),
		attribute.Optional("version", attribute.MustVersion("1.2.0")),
	), f, false))
	// Output:
	// (&(os=lin*)(!(version<=1.0.0)))
	// true
}
