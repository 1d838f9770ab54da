// Package harness runs scripted calculator sessions and checks what they
// print.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: add_and_store
//	description: "Stores a sum in a variable"
//	config: calc.cue          # optional, relative to the scenario file
//	batch: false
//	max_ticks: 0
//	variables: { x: 2 }
//	input:
//	  - "= 3"
//	  - "+ x"
//	  - "set total"
//	expect:
//	  output: "..."           # exact output
//	  contains: ["total: 5"]  # substrings of the output
//	  accumulator: 5
//	  variables: { total: 5 } # subset of the final variables
//
// Fields set in the scenario override the config file. Unknown fields are
// rejected so typos fail loudly.
//
// # Deterministic Testing
//
// Every run records its ticks into a private in-memory trace journal under
// a run ID equal to the scenario name. The transcript built from the
// journal is stable across runs and is what golden files compare.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/add.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
